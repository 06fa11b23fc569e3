package store

import (
	"time"

	"github.com/iwvelando/dre-diagnostics/internal/diagnosis"
	"github.com/iwvelando/dre-diagnostics/pkg/dre"
)

// Account is a registered user of the web application.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Analysis is a diagnosis saved by an account.
type Analysis struct {
	ID        string              `json:"id"`
	AccountID string              `json:"-"`
	Diagnosis diagnosis.Diagnosis `json:"diagnosis"`
	CreatedAt time.Time           `json:"createdAt"`
}

type AccountModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (AccountModel) TableName() string {
	return "accounts"
}

func toAccountModel(a Account) AccountModel {
	return AccountModel{
		ID:           a.ID,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		CreatedAt:    a.CreatedAt,
	}
}

func (m AccountModel) toDomain() Account {
	return Account{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
	}
}

type AnalysisModel struct {
	ID          string        `gorm:"column:id;primaryKey"`
	AccountID   string        `gorm:"column:account_id;index;not null"`
	Name        string        `gorm:"column:name;not null"`
	Period      string        `gorm:"column:period;index"`
	EBITDA      float64       `gorm:"column:ebitda"`
	HealthScore int           `gorm:"column:health_score"`
	Figures     dre.Figures   `gorm:"column:figures;serializer:json"`
	Metrics     dre.Metrics   `gorm:"column:metrics;serializer:json"`
	Findings    []dre.Finding `gorm:"column:findings;serializer:json"`
	CreatedAt   time.Time     `gorm:"column:created_at;autoCreateTime"`
}

func (AnalysisModel) TableName() string {
	return "analyses"
}

func toAnalysisModel(a Analysis) AnalysisModel {
	d := a.Diagnosis
	return AnalysisModel{
		ID:          a.ID,
		AccountID:   a.AccountID,
		Name:        d.Name,
		Period:      d.Period,
		EBITDA:      d.Metrics.EBITDA,
		HealthScore: d.Metrics.HealthScore,
		Figures:     d.Figures,
		Metrics:     d.Metrics,
		Findings:    d.Findings,
		CreatedAt:   a.CreatedAt,
	}
}

func (m AnalysisModel) toDomain() Analysis {
	return Analysis{
		ID:        m.ID,
		AccountID: m.AccountID,
		Diagnosis: diagnosis.Diagnosis{
			Name:     m.Name,
			Period:   m.Period,
			Figures:  m.Figures,
			Metrics:  m.Metrics,
			Findings: m.Findings,
		},
		CreatedAt: m.CreatedAt,
	}
}
