package repository

import (
	"fmt"

	"MarketForge/internal/model"
	"MarketForge/pkg/config"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MySQLRepository 通过gorm写入MySQL
type MySQLRepository struct {
	db        *gorm.DB
	batchSize int
}

// NewMySQLRepository 连接数据库并自动建表
func NewMySQLRepository(cfg *config.DatabaseConfig, batchSize int) (*MySQLRepository, error) {
	db, err := gorm.Open(mysql.New(mysql.Config{
		DriverName: "mysql",
		DSN:        cfg.GetDSN(),
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	sqlDB.SetMaxOpenConns(cfg.MaxOpen)

	if err := db.AutoMigrate(&model.SyntheticRecord{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if batchSize <= 0 {
		batchSize = 1000
	}
	return &MySQLRepository{db: db, batchSize: batchSize}, nil
}

// SaveRecords 事务内删除旧数据并分批插入
func (r *MySQLRepository) SaveRecords(market string, records []*model.SyntheticRecord) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("market = ?", market).Delete(&model.SyntheticRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.CreateInBatches(records, r.batchSize).Error
	})
	if err != nil {
		return fmt.Errorf("save %s records: %w", market, err)
	}

	logrus.Infof("[MySQL] saved %d %s records", len(records), market)
	return nil
}

func (r *MySQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
