package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/burhanistore/storefront-api/models"
)

// ExportStockToExcel streams a stock sheet with one row per color
// variant. Products without variants appear as a single row with an
// empty VariantID, reporting their base stock bucket.
func ExportStockToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Preload("ColorVariants").Order("id ASC").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Stock")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"ProductID", "ProductName", "VariantID", "ColorName",
			"Stock", "IsActive", "UpdatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, p := range products {
			if len(p.ColorVariants) == 0 {
				row := sheet.AddRow()
				row.AddCell().SetValue(p.ID)
				row.AddCell().SetValue(p.Name)
				row.AddCell().SetValue("")
				row.AddCell().SetValue("")
				row.AddCell().SetValue(p.Stock)
				row.AddCell().SetValue(p.IsActive)
				row.AddCell().SetValue(p.UpdatedAt.Format("2006-01-02 15:04:05"))
				continue
			}
			for _, v := range p.ColorVariants {
				row := sheet.AddRow()
				row.AddCell().SetValue(p.ID)
				row.AddCell().SetValue(p.Name)
				row.AddCell().SetValue(v.ID)
				row.AddCell().SetValue(v.ColorName)
				row.AddCell().SetValue(v.Stock)
				row.AddCell().SetValue(v.IsActive)
				row.AddCell().SetValue(v.UpdatedAt.Format("2006-01-02 15:04:05"))
			}
		}

		c.Header("Content-Disposition", "attachment; filename=stock.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
