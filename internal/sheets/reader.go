package sheets

import (
	"context"
	"fmt"
	"strings"

	"simulador/pkg/models"
	"simulador/pkg/money"
)

// DefaultProductSheet is the tab products are imported from.
const DefaultProductSheet = "Produtos"

// ReadProducts reads catalog products from sheetName.
//
// Expected columns: A=Nome, B=Código, C=Custo de aquisição, D=Preço de venda,
// E=Descrição. The first row is a header. Rows without a name are skipped.
func (s *Service) ReadProducts(ctx context.Context, sheetName string) ([]models.ProductInput, error) {
	const op = "ReadProducts"

	if sheetName == "" {
		sheetName = DefaultProductSheet
	}

	s.log.Info().Str("sheet", sheetName).Msg("Reading products")

	values, err := s.ReadRange(ctx, sheetName+"!A:E")
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read %s sheet: %w", op, sheetName, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s: %s: %w", op, sheetName, ErrEmptySheet)
	}

	var products []models.ProductInput
	for i, row := range values[1:] {
		rowNum := i + 2 // header row and 1-based numbering

		product, ok := parseProductRow(row)
		if !ok {
			s.log.Warn().
				Int("row", rowNum).
				Int("columns", len(row)).
				Str("sheet", sheetName).
				Msg("Skipping product row without a name")
			continue
		}
		products = append(products, product)
	}

	s.log.Info().
		Int("total_rows", len(values)-1).
		Int("parsed_products", len(products)).
		Str("sheet", sheetName).
		Msg("Products read successfully")

	return products, nil
}

func parseProductRow(row []interface{}) (models.ProductInput, bool) {
	name := getString(row, 0)
	if name == "" {
		return models.ProductInput{}, false
	}
	return models.ProductInput{
		Name:            name,
		ReferenceCode:   getString(row, 1),
		AcquisitionCost: getAmount(row, 2),
		SalePrice:       getAmount(row, 3),
		Description:     getString(row, 4),
	}, true
}

// getString safely extracts a string value from a row slice
func getString(row []interface{}, index int) string {
	if index >= len(row) || row[index] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", row[index]))
}

// getAmount reads a currency cell. Formatted cells arrive as Brazilian
// notation strings; unformatted ones as numbers in reais.
func getAmount(row []interface{}, index int) money.Cents {
	if index >= len(row) {
		return 0
	}
	if v, ok := row[index].(float64); ok {
		return money.FromReais(v)
	}
	return money.Parse(getString(row, index))
}
