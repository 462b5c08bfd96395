// seed.go — стартовые данные Registry Module.
// Персистентного стора нет: при каждом запуске процесса хранилища
// наполняются этим набором (аналог таблиц справочников и demo-данных).
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/bigkaa/filetrack/registry-module/internal/domain/model"
)

// SeedData — полный набор стартовых данных.
type SeedData struct {
	Departments []model.Department
	Locations   []model.Location
	Files       []*model.FileRecord
	Issues      []*model.FileIssue
	History     []*model.LocationHistory
	Requests    []*model.FileRequest
}

// Seed возвращает стартовый набор данных реестра:
// 6 подразделений, 6 локаций, 8 файлов (RFID001–RFID008),
// открытые выдачи для файлов со статусом checked-out,
// журнал перемещений и несколько заявок.
func Seed() *SeedData {
	departments := []model.Department{
		{ID: "1", Name: "Human Resources", DisplayColor: "blue"},
		{ID: "2", Name: "Finance", DisplayColor: "green"},
		{ID: "3", Name: "Legal", DisplayColor: "purple"},
		{ID: "4", Name: "Operations", DisplayColor: "orange"},
		{ID: "5", Name: "Marketing", DisplayColor: "pink"},
		{ID: "6", Name: "IT", DisplayColor: "indigo"},
	}

	locations := []model.Location{
		{ID: "1", Name: "Main Archive", Description: "Центральный архив документов", Building: "A", Floor: "B1", Room: "A-015"},
		{ID: "2", Name: "Legal Library", Description: "Библиотека юридического отдела", Building: "B", Floor: "3", Room: "B-312"},
		{ID: "3", Name: "HR Records Room", Description: "Хранилище кадровых документов", Building: "A", Floor: "2", Room: "A-204"},
		{ID: "4", Name: "Finance Vault", Description: "Защищённое хранилище финансовых отчётов", Building: "A", Floor: "1", Room: "A-101"},
		{ID: "5", Name: "Operations Office", Description: "Офис операционного отдела", Building: "C", Floor: "4", Room: "C-410"},
		{ID: "6", Name: "IT Storage", Description: "Хранилище IT-документации", Building: "C", Floor: "5", Room: "C-503"},
	}

	loc := func(id string) *model.Location {
		for i := range locations {
			if locations[i].ID == id {
				return &locations[i]
			}
		}
		return nil
	}

	files := []*model.FileRecord{
		{
			ID: "1", FileName: "Employee_Handbook_2024.pdf", Department: departments[0],
			LastAccessed: date("2024-01-15T10:30:00"), AccessedBy: "Mr. John Smith",
			Tags: []string{"handbook", "employees", "policies", "hr"},
			FileType: "PDF", Size: "2.3 MB", RFIDTag: "RFID001",
			Status: model.StatusAvailable, CurrentLocation: loc("3"),
		},
		{
			ID: "2", FileName: "Q4_Financial_Report.xlsx", Department: departments[1],
			LastAccessed: date("2024-01-14T14:45:00"), AccessedBy: "Ms. Sarah Johnson",
			Tags: []string{"financial", "quarterly", "report", "revenue"},
			FileType: "Excel", Size: "5.7 MB", RFIDTag: "RFID002",
			Status: model.StatusCheckedOut, CurrentLocation: loc("4"),
		},
		{
			ID: "3", FileName: "Contract_Template_V3.docx", Department: departments[2],
			LastAccessed: date("2024-01-14T09:15:00"), AccessedBy: "Mr. David Wilson",
			Tags: []string{"contract", "template", "legal", "agreement"},
			FileType: "Word", Size: "1.2 MB", RFIDTag: "RFID003",
			Status: model.StatusAvailable, CurrentLocation: loc("2"),
		},
		{
			ID: "4", FileName: "Operational_Procedures.pdf", Department: departments[3],
			LastAccessed: date("2024-01-13T16:20:00"), AccessedBy: "Ms. Emily Davis",
			Tags: []string{"procedures", "operations", "workflow", "sop"},
			FileType: "PDF", Size: "4.1 MB", RFIDTag: "RFID004",
			Status: model.StatusAvailable, CurrentLocation: loc("5"),
		},
		{
			ID: "5", FileName: "Brand_Guidelines_2024.pdf", Department: departments[4],
			LastAccessed: date("2024-01-13T11:30:00"), AccessedBy: "Mr. Michael Brown",
			Tags: []string{"brand", "guidelines", "marketing", "design"},
			FileType: "PDF", Size: "8.9 MB", RFIDTag: "RFID005",
			Status: model.StatusAvailable, CurrentLocation: loc("1"),
		},
		{
			ID: "6", FileName: "Network_Security_Policy.docx", Department: departments[5],
			LastAccessed: date("2024-01-12T13:45:00"), AccessedBy: "Mr. Robert Garcia",
			Tags: []string{"security", "network", "policy", "it", "cybersecurity"},
			FileType: "Word", Size: "3.2 MB", RFIDTag: "RFID006",
			Status: model.StatusArchived, CurrentLocation: loc("1"),
		},
		{
			ID: "7", FileName: "Training_Materials_2024.pptx", Department: departments[0],
			LastAccessed: date("2024-01-12T08:00:00"), AccessedBy: "Ms. Lisa Anderson",
			Tags: []string{"training", "presentation", "onboarding", "hr"},
			FileType: "PowerPoint", Size: "12.4 MB", RFIDTag: "RFID007",
			Status: model.StatusAvailable, CurrentLocation: loc("3"),
		},
		{
			ID: "8", FileName: "Budget_Forecast_2024.xlsx", Department: departments[1],
			LastAccessed: date("2024-01-11T15:30:00"), AccessedBy: "Mr. Christopher Lee",
			Tags: []string{"budget", "forecast", "financial", "planning"},
			FileType: "Excel", Size: "4.8 MB", RFIDTag: "RFID008",
			Status: model.StatusCheckedOut, CurrentLocation: loc("4"),
		},
	}

	// Открытые выдачи для файлов со статусом checked-out
	issues := []*model.FileIssue{
		{
			ID: "issue-1", FileID: "2", FileName: "Q4_Financial_Report.xlsx", RFIDTag: "RFID002",
			IssuedTo: "Ms. Sarah Johnson", IssuedBy: "admin",
			IssueDate:          date("2024-01-14T14:45:00"),
			ExpectedReturnDate: date("2024-01-21T14:45:00"),
			IssueLocation:      *loc("4"),
			Status:             model.IssueStatusIssued,
		},
		{
			ID: "issue-2", FileID: "8", FileName: "Budget_Forecast_2024.xlsx", RFIDTag: "RFID008",
			IssuedTo: "Mr. Christopher Lee", IssuedBy: "admin",
			IssueDate:          date("2024-01-11T15:30:00"),
			ExpectedReturnDate: date("2024-01-18T15:30:00"),
			IssueLocation:      *loc("4"),
			Status:             model.IssueStatusIssued,
		},
	}

	history := []*model.LocationHistory{
		{
			ID: "hist-1", FileID: "1", Location: *loc("3"), MovedBy: "Mr. John Smith",
			MovedDate: date("2024-01-10T09:00:00"), PreviousLocation: loc("1"),
			Notes: "Перемещён из центрального архива",
		},
		{
			ID: "hist-2", FileID: "3", Location: *loc("2"), MovedBy: "Mr. David Wilson",
			MovedDate: date("2024-01-12T11:20:00"), PreviousLocation: loc("1"),
		},
	}

	requests := []*model.FileRequest{
		{
			ID: "req-1", Type: model.RequestTypeIssue, RFIDTag: "RFID004",
			FileName: "Operational_Procedures.pdf", RequestedBy: "emily.davis",
			Department: departments[3], RequestDate: date("2024-01-15T09:40:00"),
			Status: model.RequestStatusPending, Duration: "7 days",
		},
		{
			ID: "req-2", Type: model.RequestTypeUpload, RFIDTag: "RFID009",
			FileName: "Vendor_Agreement_2024.pdf", RequestedBy: "david.wilson",
			Department: departments[2], RequestDate: date("2024-01-15T12:05:00"),
			Status: model.RequestStatusPending, CreatedBy: "Mr. David Wilson",
			Tags: []string{"vendor", "agreement", "legal"}, FileSize: "1.8 MB",
		},
	}

	return &SeedData{
		Departments: departments,
		Locations:   locations,
		Files:       files,
		Issues:      issues,
		History:     history,
		Requests:    requests,
	}
}

// Apply наполняет хранилища seed-данными.
// Вызывается один раз при старте процесса.
func (s *SeedData) Apply(ctx context.Context, files FileRepository, issues IssueRepository, history LocationHistoryRepository, requests RequestRepository) error {
	for _, f := range s.Files {
		if err := files.Insert(ctx, f); err != nil {
			return fmt.Errorf("seed файла %s: %w", f.ID, err)
		}
	}
	for _, i := range s.Issues {
		if err := issues.Insert(ctx, i); err != nil {
			return fmt.Errorf("seed выдачи %s: %w", i.ID, err)
		}
	}
	for _, h := range s.History {
		if err := history.Append(ctx, h); err != nil {
			return fmt.Errorf("seed журнала %s: %w", h.ID, err)
		}
	}
	for _, r := range s.Requests {
		if err := requests.Insert(ctx, r); err != nil {
			return fmt.Errorf("seed заявки %s: %w", r.ID, err)
		}
	}
	return nil
}

// date разбирает время seed-данных (локальный формат без зоны, UTC).
func date(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		panic(fmt.Sprintf("некорректная дата seed: %s", s))
	}
	return t.UTC()
}
