/*
Copyright © 2025 David Stockton <dave@davidstockton.com>
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/dstockto/brewctl/models"
	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
)

var inventoryExportCmd = &cobra.Command{
	Use:   "export <file.xlsx>",
	Short: "Export the inventory to a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := connect(cmd, nil, nil)
		if err != nil {
			return err
		}
		defer s.Close()

		cmd.SilenceUsage = true
		inventory, err := s.ledger.FetchInventory(cmd.Context())
		if err != nil {
			return err
		}

		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		if err := writeInventoryWorkbook(f, inventory); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d ingredients to %s\n", len(inventory), args[0])
		return nil
	},
}

// writeInventoryWorkbook writes one row per ingredient under a header row. Stock is written
// as a number so the sheet can sum it.
func writeInventoryWorkbook(w io.Writer, ings []models.Ingredient) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{"id", "category", "name", "stock", "unit"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := 2
	for _, ing := range ings {
		stock, _ := ing.Stock.Round(models.QuantityDecimals).Float64()
		excelRow := []interface{}{
			ing.ID,
			ing.Category.Title(),
			ing.Name,
			stock,
			unitOf(ing),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}

	return f.Write(w)
}

func init() {
	inventoryCmd.AddCommand(inventoryExportCmd)
}
