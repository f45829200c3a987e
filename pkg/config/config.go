package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/go-ini/ini"
	"github.com/sirupsen/logrus"
)

// Config 应用配置
type Config struct {
	Generator GeneratorConfig `ini:"generator"`
	Fetcher   FetcherConfig   `ini:"fetcher"`
	Enricher  EnricherConfig  `ini:"enricher"`
	Splitter  SplitterConfig  `ini:"splitter"`
	Provider  ProviderConfig  `ini:"provider"`
	Storage   StorageConfig   `ini:"storage"`
	Database  DatabaseConfig  `ini:"database"`
	Cache     CacheConfig     `ini:"cache"`
	Server    ServerConfig    `ini:"server"`
	Report    ReportConfig    `ini:"report"`
}

// GeneratorConfig 合成数据生成配置
type GeneratorConfig struct {
	Market        string `ini:"market"`         // csi500 / sp500
	Input         string `ini:"input"`          // 公司列表，为空时按市场取默认
	Output        string `ini:"output"`         // 输出CSV，为空时按市场取默认
	TargetRecords int    `ini:"target_records"` // 目标记录数
	Years         int    `ini:"years"`          // 回溯年数（按365天计）
	IndexSeed     int64  `ini:"index_seed"`     // 指数路径种子
	RowSeed       int64  `ini:"row_seed"`       // 行级随机种子，0=按时间
}

// FetcherConfig 指数行情拉取配置
type FetcherConfig struct {
	Candidates    string `ini:"candidates"`     // 候选代码，逗号分隔
	Fallback      string `ini:"fallback"`       // 兜底代码
	FallbackYears int    `ini:"fallback_years"` // 兜底区间（年）
	ValueColumn   string `ini:"value_column"`   // 输出列名
	Output        string `ini:"output"`
}

// EnricherConfig 公司信息补全配置
type EnricherConfig struct {
	Input          string `ini:"input"`
	Output         string `ini:"output"`
	DelayMillis    int    `ini:"delay_ms"`        // 两次查询间隔
	DefaultCountry string `ini:"default_country"` // 查询失败时的国家
}

// SplitterConfig 文件拆分配置
type SplitterConfig struct {
	Input   string `ini:"input"`
	Output1 string `ini:"output1"`
	Output2 string `ini:"output2"`
	Column  string `ini:"column"` // 分片模式下的键列
	Shards  int    `ini:"shards"` // 分片数，仅在设置键列时生效
}

// ProviderConfig 行情数据源配置
type ProviderConfig struct {
	Name          string `ini:"name"` // yahoo / polygon
	PolygonAPIKey string `ini:"polygon_api_key"`
	QPS           int    `ini:"qps"`
}

// StorageConfig 生成记录的额外落地
type StorageConfig struct {
	Sinks      string `ini:"sinks"` // sqlite,mysql
	SQLitePath string `ini:"sqlite_path"`
	BatchSize  int    `ini:"batch_size"`
}

// DatabaseConfig MySQL配置
type DatabaseConfig struct {
	Host     string `ini:"host"`
	Port     int    `ini:"port"`
	Username string `ini:"username"`
	Password string `ini:"password"`
	Database string `ini:"database"`
	MaxIdle  int    `ini:"max_idle"` // 最大空闲连接数
	MaxOpen  int    `ini:"max_open"` // 最大打开连接数
}

// CacheConfig 缓存配置
type CacheConfig struct {
	MaxBytes     int64  `ini:"max_bytes"`     // 最大缓存字节数
	SnapshotPath string `ini:"snapshot_path"` // 快照文件路径
	TTLSeconds   int64  `ini:"ttl_seconds"`   // 条目过期时间
}

// ServerConfig HTTP服务配置
type ServerConfig struct {
	Port     string  `ini:"port"`
	QPS      int     `ini:"qps"`
	Burst    int     `ini:"burst"`
	IPQPS    float64 `ini:"ip_qps"`   // 单个客户端限流，<=0 关闭
	IPBurst  int     `ini:"ip_burst"` // 单个客户端突发
	CacheMax int64   `ini:"cache_max_bytes"`
}

// ReportConfig 统计报告配置
type ReportConfig struct {
	Input    string `ini:"input"`
	Database string `ini:"database"` // duckdb文件，空为内存库
}

// Default 返回与脚本时代一致的默认值
func Default() *Config {
	return &Config{
		Generator: GeneratorConfig{
			Market:        "csi500",
			TargetRecords: 500000,
			Years:         10,
			IndexSeed:     42,
		},
		Fetcher: FetcherConfig{
			Candidates:    "000905.SS,399905.SZ,000905.SH",
			Fallback:      "000905.SS",
			FallbackYears: 10,
			ValueColumn:   "CSI500",
			Output:        "csi500_prices.csv",
		},
		Enricher: EnricherConfig{
			Input:          "csi500_companies.csv",
			Output:         "csi500_companies_english.csv",
			DelayMillis:    100,
			DefaultCountry: "China",
		},
		Splitter: SplitterConfig{
			Input:   "sp500_data_500k.csv",
			Output1: "sp500_data_part1.csv",
			Output2: "sp500_data_part2.csv",
			Shards:  2,
		},
		Provider: ProviderConfig{
			Name: "yahoo",
			QPS:  10,
		},
		Storage: StorageConfig{
			SQLitePath: "./data/marketforge.db",
			BatchSize:  1000,
		},
		Database: DatabaseConfig{
			Host:    "127.0.0.1",
			Port:    3306,
			MaxIdle: 5,
			MaxOpen: 10,
		},
		Cache: CacheConfig{
			MaxBytes:     64 * 1024 * 1024,
			SnapshotPath: "./data/company_info.snapshot",
			TTLSeconds:   7 * 24 * 3600,
		},
		Server: ServerConfig{
			Port:     "8080",
			QPS:      300,
			Burst:    500,
			IPQPS:    50,
			IPBurst:  100,
			CacheMax: 256 * 1024 * 1024,
		},
		Report: ReportConfig{},
	}
}

// LoadConfig 加载配置文件，文件不存在时使用默认值
func LoadConfig(filePath string) (*Config, error) {
	cfg := Default()

	if filePath != "" {
		if _, err := os.Stat(filePath); err == nil {
			if err := ini.MapTo(cfg, filePath); err != nil {
				logrus.Errorf("Failed to load config file: %v", err)
				return nil, err
			}
			logrus.Infof("Config loaded successfully from: %s", filePath)
		} else {
			logrus.Warnf("Config file %s not found, using defaults", filePath)
		}
	}

	if cfg.Provider.PolygonAPIKey == "" {
		cfg.Provider.PolygonAPIKey = os.Getenv("POLYGON_API_KEY")
	}
	return cfg, nil
}

// SinkList 解析落地目标
func (s *StorageConfig) SinkList() []string {
	return SplitList(s.Sinks)
}

// CandidateList 解析候选代码
func (f *FetcherConfig) CandidateList() []string {
	return SplitList(f.Candidates)
}

// GetDSN 获取数据库连接字符串
func (d *DatabaseConfig) GetDSN() string {
	host := d.Host
	if d.Port > 0 {
		host = host + ":" + strconv.Itoa(d.Port)
	}
	return d.Username + ":" + d.Password + "@tcp(" + host + ")/" + d.Database + "?charset=utf8mb4&parseTime=True&loc=Local"
}

// SplitList 逗号分隔并去掉空白项
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
