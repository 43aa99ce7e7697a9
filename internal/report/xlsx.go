// Package report renders built scenes as spreadsheets.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bhargavsai259/collegeproject/internal/scene"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding one row per room
const SheetName = "Rooms"

// ContentType is the MIME type of RoomsWorkbook output
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RoomsHeader lists the worksheet columns in order
var RoomsHeader = []string{
	"Room No",
	"Room Type",
	"Position",
	"Breadth",
	"Length",
	"Height",
	"Room Color",
	"Furniture Count",
	"Furniture",
}

var columnWidths = []float64{10, 14, 18, 10, 10, 10, 12, 16, 40}

// RoomsWorkbook renders rooms into an XLSX document
func RoomsWorkbook(rooms []scene.RoomRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(SheetName); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	if index, err := f.GetSheetIndex(SheetName); err == nil {
		f.SetActiveSheet(index)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]interface{}, len(RoomsHeader))
	for i, h := range RoomsHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(RoomsHeader), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	for i, w := range columnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetName, col, col, w); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, room := range rooms {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := roomRow(room)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write room %d: %w", room.RoomNo, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func roomRow(room scene.RoomRecord) []interface{} {
	var height interface{}
	if room.Dimensions.Height != 0 {
		height = room.Dimensions.Height
	}
	return []interface{}{
		room.RoomNo,
		string(room.RoomType),
		formatPosition(room.Position),
		room.Dimensions.Breadth,
		room.Dimensions.Length,
		height,
		room.RoomColor,
		room.FurnitureCount,
		formatFurniture(room.Furniture),
	}
}

func formatPosition(p scene.Position) string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatFurniture(items []scene.FurnitureItem) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.Type + " " + formatPosition(item.Position)
	}
	return strings.Join(parts, "; ")
}
