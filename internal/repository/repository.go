package repository

import (
	"fmt"
	"strings"

	"MarketForge/internal/model"
	"MarketForge/pkg/config"

	"github.com/sirupsen/logrus"
)

// RecordRepository 合成记录的落地目标
type RecordRepository interface {
	// SaveRecords 覆盖写入某个市场的全部记录
	SaveRecords(market string, records []*model.SyntheticRecord) error
	Close() error
}

// OpenSinks 按 [storage] sinks 打开落地目标，出错时关闭已打开的
func OpenSinks(cfg *config.Config) ([]RecordRepository, error) {
	var sinks []RecordRepository
	for _, name := range cfg.Storage.SinkList() {
		var (
			repo RecordRepository
			err  error
		)
		switch strings.ToLower(name) {
		case "sqlite":
			repo, err = NewSQLiteRepository(cfg.Storage.SQLitePath, cfg.Storage.BatchSize)
		case "mysql":
			repo, err = NewMySQLRepository(&cfg.Database, cfg.Storage.BatchSize)
		default:
			err = model.ErrInvalidParameter(fmt.Sprintf("unknown sink %q", name))
		}
		if err != nil {
			CloseAll(sinks)
			return nil, fmt.Errorf("open sink %s: %w", name, err)
		}
		logrus.Infof("[Repository] sink %s opened", name)
		sinks = append(sinks, repo)
	}
	return sinks, nil
}

// CloseAll 关闭全部落地目标
func CloseAll(sinks []RecordRepository) {
	for _, s := range sinks {
		if err := s.Close(); err != nil {
			logrus.Warnf("[Repository] close sink failed: %v", err)
		}
	}
}
