package storage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// candidateRow is the SQL shape of a StoredCandidate.
type candidateRow struct {
	ID              uint     `gorm:"primaryKey"`
	FullName        string   `gorm:"not null"`
	YearsExperience string
	DesiredPosition string
	CurrentLocation string
	TechStack       []string `gorm:"serializer:json"`
	Consent         bool
	EmailHashed     string `gorm:"size:64;index"`
	PhoneHashed     string `gorm:"size:64"`
	SavedAt         int64  `gorm:"index"`
}

func (candidateRow) TableName() string {
	return "candidate_records"
}

// GormLog stores candidate records in a SQL table. Rows are only ever inserted.
type GormLog struct {
	db *gorm.DB
}

// OpenGormLog connects with driver "postgres" or "sqlite" and migrates the table.
func OpenGormLog(driver, dsn string) (*GormLog, error) {
	var dia gorm.Dialector
	switch driver {
	case "postgres":
		dia = postgres.Open(dsn)
	case "sqlite":
		dia = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}

	gormLogger := logger.New(
		zap.NewStdLog(zap.L().Named("gorm")),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dia, &gorm.Config{Logger: gormLogger, TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to configure connections: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&candidateRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate candidate_records: %w", err)
	}

	zap.S().Named("gorm").Infof("candidate log ready on %s", driver)
	return &GormLog{db: db}, nil
}

func (l *GormLog) Append(ctx context.Context, record StoredCandidate) error {
	row := candidateRow{
		FullName:        record.FullName,
		YearsExperience: record.YearsExperience,
		DesiredPosition: record.DesiredPosition,
		CurrentLocation: record.CurrentLocation,
		TechStack:       record.TechStack,
		Consent:         record.Consent,
		EmailHashed:     record.EmailHashed,
		PhoneHashed:     record.PhoneHashed,
		SavedAt:         record.SavedAt,
	}
	if err := l.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("error inserting candidate record: %w", err)
	}
	return nil
}

// ReadAll returns every record in insertion order.
func (l *GormLog) ReadAll(ctx context.Context) ([]StoredCandidate, error) {
	var rows []candidateRow
	if err := l.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("error reading candidate records: %w", err)
	}
	out := make([]StoredCandidate, 0, len(rows))
	for _, row := range rows {
		out = append(out, StoredCandidate{
			FullName:        row.FullName,
			YearsExperience: row.YearsExperience,
			DesiredPosition: row.DesiredPosition,
			CurrentLocation: row.CurrentLocation,
			TechStack:       row.TechStack,
			Consent:         row.Consent,
			EmailHashed:     row.EmailHashed,
			PhoneHashed:     row.PhoneHashed,
			SavedAt:         row.SavedAt,
		})
	}
	return out, nil
}

func (l *GormLog) Close() error {
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
