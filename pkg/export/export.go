package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/beeplan/pkg/model"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Row is one contiguous block of a course section in a single room
type Row struct {
	Day        string `csv:"day" json:"day"`
	Start      string `csv:"start" json:"start"`
	End        string `csv:"end" json:"end"`
	CourseCode string `csv:"course_code" json:"course_code"`
	Section    int    `csv:"section" json:"section"`
	CourseName string `csv:"course_name" json:"course_name"`
	Instructor string `csv:"instructor" json:"instructor"`
	Room       string `csv:"room" json:"room"`
	Year       int    `csv:"year" json:"year"`
	Type       string `csv:"type" json:"type"`
}

type blockKey struct {
	course  string
	section int
	room    string
}

// Rows flattens the schedule into display rows, merging hour-after-hour cells of the same
// course section and room. Rows follow day order, then start time, then placement order.
func Rows(schedule *model.Schedule) []*Row {
	rows := make([]*Row, 0)

	for _, day := range schedule.Days() {
		open := make(map[blockKey]*Row)
		ends := make(map[blockKey]model.Clock)

		for _, cell := range schedule.CellsOfDay(day) {
			start := schedule.Slot(cell).Start

			for _, occupancy := range schedule.Occupants(cell) {
				key := blockKey{course: occupancy.Course.ID, section: occupancy.Section, room: occupancy.Room.Name}

				// Extend the block when it ended right where this cell starts
				if row, ok := open[key]; ok && ends[key] == start {
					ends[key] = start.Add(1)
					row.End = ends[key].String()
					continue
				}

				row := &Row{
					Day:        day.String(),
					Start:      start.String(),
					End:        start.Add(1).String(),
					CourseCode: occupancy.Course.Code,
					Section:    occupancy.Section + 1,
					CourseName: occupancy.Course.Name,
					Instructor: occupancy.Course.Instructor,
					Room:       occupancy.Room.Name,
					Year:       occupancy.Course.Year,
					Type:       occupancy.Course.Type.String(),
				}
				open[key] = row
				ends[key] = start.Add(1)
				rows = append(rows, row)
			}
		}
	}

	return rows
}

func WriteCSV(writer io.Writer, rows []*Row) error {
	return gocsv.Marshal(&rows, writer)
}

func WriteJSON(writer io.Writer, rows []*Row) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rows)
}

// WriteFile exports the rows to path in the given format ("csv" or "json"); an empty path writes to the Standard Output
func WriteFile(path, format string, rows []*Row) error {
	out := os.Stdout
	if path != "" {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	if format == FormatCSV {
		return WriteCSV(out, rows)
	}
	return WriteJSON(out, rows)
}
