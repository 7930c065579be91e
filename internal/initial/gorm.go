package initial

import (
	"fmt"
	"log"
	"os"
	"time"

	"Caffinate/internal/config"
	"Caffinate/internal/modules/dataset/domain/dataset"
	"Caffinate/pkg/zlog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var GormDB *gorm.DB

func init() {
	conf := config.GetConfig()
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		conf.PostgresConfig.Host,
		conf.PostgresConfig.Port,
		conf.PostgresConfig.User,
		conf.PostgresConfig.Password,
		conf.PostgresConfig.DatabaseName,
		conf.PostgresConfig.SSLMode,
	)

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var err error
	GormDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		zlog.Fatal(err.Error())
	}

	// Only the registry is migrated; the per-tenant data tables are created
	// dynamically at ingestion time.
	if err = GormDB.AutoMigrate(&dataset.DatasetRecord{}); err != nil {
		zlog.Fatal(err.Error())
	}
}
