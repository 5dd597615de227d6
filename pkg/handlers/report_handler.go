package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fresh-retail-api/pkg/models"
	"fresh-retail-api/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ReportHandler カタログのExcelエクスポートとファイル取り込みのハンドラー
type ReportHandler struct {
	store *services.StoreService
}

// NewReportHandler 新しいレポートハンドラーを作成
func NewReportHandler(store *services.StoreService) *ReportHandler {
	return &ReportHandler{store: store}
}

// ExportCatalog カタログと推奨をxlsxで出力する
func (rh *ReportHandler) ExportCatalog(c *gin.Context) {
	f := excelize.NewFile()
	defer f.Close()

	// 商品シート
	productSheet := "Products"
	f.SetSheetName(f.GetSheetName(0), productSheet)
	productHeaders := []string{"ID", "Name", "Category", "Inventory", "Expiry Date", "Days To Expiry", "Status", "Base Price", "Current Price", "Change %", "Sales Velocity", "Competitor Price", "Demand Score"}
	for i, h := range productHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(productSheet, cell, h)
	}
	for row, p := range rh.store.Products() {
		values := []interface{}{p.ID, p.Name, p.Category, p.InventoryCount, p.ExpiryDate, p.DaysToExpiry, string(p.Status), p.BasePrice, p.CurrentPrice, p.PriceChangePercentage, p.SalesVelocity, p.CompetitorPrice, p.DemandScore}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(productSheet, cell, v)
		}
	}

	// 推奨シート
	recSheet := "Recommendations"
	f.NewSheet(recSheet)
	recHeaders := []string{"ID", "Type", "Title", "Description", "Impact", "Urgency", "Confidence", "Suggested Action"}
	for i, h := range recHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(recSheet, cell, h)
	}
	for row, rec := range rh.store.Recommendations() {
		values := []interface{}{rec.ID, string(rec.Type), rec.Title, rec.Description, rec.Impact, string(rec.Urgency), rec.Confidence, rec.SuggestedAction}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(recSheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		log.Printf("failed to build catalog report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "failed to build report",
		})
		return
	}

	fileName := fmt.Sprintf("catalog-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ImportCatalog csv/xlsxからカタログを取り込む。
// 期待する列: name, category, inventoryCount, expiryDate, basePrice, salesVelocity, competitorPrice
func (rh *ReportHandler) ImportCatalog(c *gin.Context) {
	c.Request.ParseMultipartForm(10 << 20) // 10MB制限

	file, fileHeader, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "file is required",
		})
		return
	}
	defer file.Close()

	rows, err := readTabularFile(file, fileHeader.Filename)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	if len(rows) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "file must contain a header row and at least one data row",
		})
		return
	}

	imported := 0
	var rowErrors []string
	for i, row := range rows[1:] {
		req, err := parseProductRow(row)
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		if _, err := rh.store.AddProduct(req); err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		imported++
	}

	log.Printf("catalog import: %d rows imported, %d rejected", imported, len(rowErrors))

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"imported": imported,
		"rejected": len(rowErrors),
		"errors":   rowErrors,
	})
}

// readTabularFile 拡張子に応じてxlsxまたはcsvとして行列を読み出す
func readTabularFile(file io.Reader, fileName string) ([][]string, error) {
	lower := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lower, ".xlsx"):
		f, err := excelize.OpenReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read xlsx file: %w", err)
		}
		defer f.Close()
		rows, err := f.GetRows(f.GetSheetName(0))
		if err != nil {
			return nil, fmt.Errorf("failed to read xlsx rows: %w", err)
		}
		return rows, nil
	case strings.HasSuffix(lower, ".csv"):
		r := csv.NewReader(file)
		r.FieldsPerRecord = -1
		rows, err := r.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("failed to read csv file: %w", err)
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("unsupported file type: %s (use .csv or .xlsx)", fileName)
	}
}

// parseProductRow 1行分を登録リクエストへ変換し、境界検証を行う
func parseProductRow(row []string) (models.CreateProductRequest, error) {
	if len(row) < 7 {
		return models.CreateProductRequest{}, fmt.Errorf("expected 7 columns, got %d", len(row))
	}

	inventory, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil || inventory < 0 {
		return models.CreateProductRequest{}, fmt.Errorf("invalid inventory count %q", row[2])
	}
	basePrice, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
	if err != nil || basePrice <= 0 {
		return models.CreateProductRequest{}, fmt.Errorf("invalid base price %q", row[4])
	}
	velocity, err := strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
	if err != nil || velocity < 0 || velocity > 1 {
		return models.CreateProductRequest{}, fmt.Errorf("invalid sales velocity %q", row[5])
	}
	competitorPrice, err := strconv.ParseFloat(strings.TrimSpace(row[6]), 64)
	if err != nil || competitorPrice < 0 {
		return models.CreateProductRequest{}, fmt.Errorf("invalid competitor price %q", row[6])
	}

	category := strings.TrimSpace(strings.ToLower(row[1]))
	valid := false
	for _, c := range models.ProductCategories {
		if c == category {
			valid = true
			break
		}
	}
	if !valid {
		return models.CreateProductRequest{}, fmt.Errorf("unknown category %q", row[1])
	}

	return models.CreateProductRequest{
		Name:            strings.TrimSpace(row[0]),
		Category:        category,
		InventoryCount:  inventory,
		ExpiryDate:      strings.TrimSpace(row[3]),
		BasePrice:       basePrice,
		SalesVelocity:   velocity,
		CompetitorPrice: competitorPrice,
	}, nil
}
