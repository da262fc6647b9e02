package db

import (
	"VidTube.com/cmd/model"
	"VidTube.com/pkg/utils"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormopentracing "gorm.io/plugin/opentracing"
)

var DB *gorm.DB

// Init init DB
func Init() {
	var err error
	DB, err = gorm.Open(mysql.Open(utils.GetMysqlDsn()),
		&gorm.Config{
			PrepareStmt:            true,
			SkipDefaultTransaction: true,
		},
	)
	if err != nil {
		panic(err)
	}
	if err = DB.Use(gormopentracing.New()); err != nil {
		panic(err)
	}
	if err = migrate(DB); err != nil {
		panic(err)
	}
}

func migrate(db *gorm.DB) error {
	hlog.Info("Starting table migration...")
	for _, c := range model.All() {
		if err := db.AutoMigrate(model.New(c)); err != nil {
			hlog.Errorf("Failed to migrate %s table: %v", c, err)
			return err
		}
	}
	hlog.Info("Table migration completed successfully")
	return nil
}
