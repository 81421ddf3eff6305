package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/burhanistore/storefront-api/models"
)

// ImportStockFromExcel applies bulk stock corrections from a sheet in
// the same shape ExportStockToExcel produces. Only the Stock column is
// written back: rows with a VariantID update that variant, rows without
// one update the product's base stock bucket. Stock values are absolute
// counts from a physical recount, not deltas.
func ImportStockFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse Excel file"})
			return
		}

		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		sheet := xlFile.Sheets[0]
		updatedCount, skippedCount := 0, 0

		for i := 1; i < sheet.MaxRow; i++ {
			row := sheet.Rows[i]

			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			productID, err := strconv.Atoi(get(0))
			if err != nil || productID <= 0 {
				skippedCount++
				continue
			}
			variantIDStr := get(2)
			stock, err := strconv.Atoi(get(4))
			if err != nil || stock < 0 {
				skippedCount++
				continue
			}

			var result *gorm.DB
			if variantIDStr != "" {
				variantID, err := strconv.Atoi(variantIDStr)
				if err != nil {
					skippedCount++
					continue
				}
				result = db.Model(&models.ColorVariant{}).
					Where("id = ? AND product_id = ?", variantID, productID).
					Update("stock", stock)
			} else {
				result = db.Model(&models.Product{}).
					Where("id = ?", productID).
					Update("stock", stock)
			}

			if result.Error != nil || result.RowsAffected == 0 {
				skippedCount++
				continue
			}
			updatedCount++
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Stock import completed",
			"updated_count": updatedCount,
			"skipped_count": skippedCount,
		})
	}
}
