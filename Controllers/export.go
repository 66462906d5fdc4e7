package Controllers

import (
	"bytes"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"

	"Podium/Models"
)

// buildWorkbook renders one sheet per entity kind, with human-readable
// timestamps in place of raw values.
func buildWorkbook(students []Models.Student, tasks []Models.Task) (*bytes.Buffer, error) {
	f := excelize.NewFile()

	headerStyle, styleErr := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6E6FA"},
			Pattern: 1,
		},
	})

	writeSheet := func(sheetName string, headers []string, rows [][]interface{}) error {
		index, err := f.NewSheet(sheetName)
		if err != nil {
			return fmt.Errorf("error creating sheet: %v", err)
		}
		f.SetActiveSheet(index)

		for i, header := range headers {
			cell := fmt.Sprintf("%c1", 'A'+i)
			f.SetCellValue(sheetName, cell, header)
		}
		if styleErr == nil {
			f.SetRowStyle(sheetName, 1, 1, headerStyle)
		}

		for rowIndex, values := range rows {
			for colIndex, value := range values {
				cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
				f.SetCellValue(sheetName, cell, value)
			}
		}

		for i := range headers {
			col := string('A' + rune(i))
			f.SetColWidth(sheetName, col, col, 18)
		}
		return nil
	}

	studentRows := make([][]interface{}, 0, len(students))
	for _, s := range students {
		studentRows = append(studentRows, []interface{}{
			s.FullName,
			s.DepartmentName,
			s.Points,
			s.SSHR,
			s.CreatedAt.Format("2006-01-02 15:04:05"),
			s.UpdatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	if err := writeSheet("Students",
		[]string{"Name", "Department", "Points", "SSHR", "Created At", "Updated At"},
		studentRows); err != nil {
		return nil, err
	}

	taskRows := make([][]interface{}, 0, len(tasks))
	for _, task := range tasks {
		taskRows = append(taskRows, []interface{}{
			task.Title,
			task.Description,
			task.Deadline,
			task.Reward,
			task.Status,
		})
	}
	if err := writeSheet("Tasks",
		[]string{"Title", "Description", "Deadline", "Reward", "Status"},
		taskRows); err != nil {
		return nil, err
	}

	f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing Excel file to buffer: %v", err)
	}
	return &buf, nil
}

// ExportData streams the admin spreadsheet export: a workbook with a
// Students sheet and a Tasks sheet.
func ExportData(c *fiber.Ctx) error {
	students, err := Models.ListStudents(c.Context())
	if err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve students",
		})
	}
	tasks, err := Models.ListTasks(c.Context())
	if err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve tasks",
		})
	}

	buf, err := buildWorkbook(students, tasks)
	if err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build export file",
		})
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="admin_dashboard_data.xlsx"`)
	return c.Send(buf.Bytes())
}
