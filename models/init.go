package models

import (
	"mediafolio/db"
)

func Init() {
	db.Instance.AutoMigrate(&User{})
	db.Instance.AutoMigrate(&Profile{})
	db.Instance.AutoMigrate(&Album{})
	db.Instance.AutoMigrate(&Image{})
}
