package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
)

type CsvRenderer struct {
}

func NewCsvRenderer() *CsvRenderer {
	return &CsvRenderer{}
}

// Render produces the weekly report as CSV: a header row, one row per day,
// per-project totals, and the week total.
func (t *CsvRenderer) Render(report WeeklyReport) (string, error) {
	data := make([][]string, 0, len(report.Days)+len(report.ByProject)+3)
	data = append(data, []string{"Employee", report.EmployeeName})
	data = append(data, []string{"Week of", report.WeekStart.Format("02/01/2006")})

	for _, day := range report.Days {
		data = append(data, []string{day.Date.Format("02/01/2006"), durationToString(day.Duration)})
	}

	projects := make([]string, 0, len(report.ByProject))
	for project := range report.ByProject {
		projects = append(projects, project)
	}
	sort.Strings(projects)
	for _, project := range projects {
		data = append(data, []string{project, durationToString(report.ByProject[project])})
	}

	data = append(data, []string{"SUM", durationToString(report.Total)})

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func durationToString(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
