package db

import (
	"fmt"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DialectSQLite = "sqlite"
	DialectMySQL  = "mysql"
)

var mysqlDatetimePrecision = 6

// NewGormDB opens a gorm handle for the sqlite or mysql dialect.
// For sqlite the dsn is the database file path (or ":memory:").
func NewGormDB(dialect, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch dialect {
	case DialectSQLite:
		dialector = sqlite.Open(dsn)
	case DialectMySQL:
		mysqlCfg, err := mysqldriver.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse mysql dsn: %w", err)
		}
		mysqlCfg.ParseTime = true
		// rows affected must count matched rows, not changed ones
		mysqlCfg.ClientFoundRows = true
		if mysqlCfg.Params == nil {
			mysqlCfg.Params = map[string]string{}
		}
		mysqlCfg.Params["charset"] = "utf8mb4"

		dialector = mysql.New(mysql.Config{
			DSN:                      mysqlCfg.FormatDSN(),
			DefaultDatetimePrecision: &mysqlDatetimePrecision,
		})
	default:
		return nil, fmt.Errorf("unsupported gorm dialect: %s", dialect)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(log.StandardLogger(), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", dialect, err)
	}

	if dialect == DialectSQLite {
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, fmt.Errorf("get sqlite db handle: %w", err)
		}
		// sqlite allows a single writer; one connection also keeps
		// an in-memory database alive and shared
		sqlDB.SetMaxOpenConns(1)
	}

	return gormDB, nil
}

func CloseGormDB(gormDB *gorm.DB) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
