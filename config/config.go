package config

import (
	"github.com/spf13/viper"
)

var (
	BIND_ADDRESS = "0.0.0.0:8080"
	TLS_DOMAINS  = "" // e.g. "example.com,example2.com"
	DEBUG_MODE   = true
	SESSION_KEY  = "" // must be set in production
	MYSQL_DSN    = "" // MySQL will be used if this is set
	SQLITE_FILE  = "mediafolio.sqlite3"

	// Storage mode. When LOCAL_MODE is true all media lives under MEDIA_DIR
	// on disk; otherwise an S3 bucket is used.
	LOCAL_MODE = true
	MEDIA_DIR  = "./media"

	AWS_REGION            = "us-east-1"
	AWS_ACCESS_KEY_ID     = ""
	AWS_SECRET_ACCESS_KEY = ""
	AWS_STORAGE_BUCKET    = ""
	AWS_S3_ENDPOINT       = "" // set for S3-compatible stores (MinIO, etc)
)

func init() {
	viper.SetDefault("BIND_ADDRESS", BIND_ADDRESS)
	viper.SetDefault("TLS_DOMAINS", TLS_DOMAINS)
	viper.SetDefault("DEBUG_MODE", DEBUG_MODE)
	viper.SetDefault("SESSION_KEY", SESSION_KEY)
	viper.SetDefault("MYSQL_DSN", MYSQL_DSN)
	viper.SetDefault("SQLITE_FILE", SQLITE_FILE)
	viper.SetDefault("LOCAL_MODE", LOCAL_MODE)
	viper.SetDefault("MEDIA_DIR", MEDIA_DIR)
	viper.SetDefault("AWS_REGION", AWS_REGION)
	viper.SetDefault("AWS_ACCESS_KEY_ID", AWS_ACCESS_KEY_ID)
	viper.SetDefault("AWS_SECRET_ACCESS_KEY", AWS_SECRET_ACCESS_KEY)
	viper.SetDefault("AWS_STORAGE_BUCKET", AWS_STORAGE_BUCKET)
	viper.SetDefault("AWS_S3_ENDPOINT", AWS_S3_ENDPOINT)
	viper.AutomaticEnv()

	BIND_ADDRESS = viper.GetString("BIND_ADDRESS")
	TLS_DOMAINS = viper.GetString("TLS_DOMAINS")
	DEBUG_MODE = viper.GetBool("DEBUG_MODE")
	SESSION_KEY = viper.GetString("SESSION_KEY")
	MYSQL_DSN = viper.GetString("MYSQL_DSN")
	SQLITE_FILE = viper.GetString("SQLITE_FILE")
	LOCAL_MODE = viper.GetBool("LOCAL_MODE")
	MEDIA_DIR = viper.GetString("MEDIA_DIR")
	AWS_REGION = viper.GetString("AWS_REGION")
	AWS_ACCESS_KEY_ID = viper.GetString("AWS_ACCESS_KEY_ID")
	AWS_SECRET_ACCESS_KEY = viper.GetString("AWS_SECRET_ACCESS_KEY")
	AWS_STORAGE_BUCKET = viper.GetString("AWS_STORAGE_BUCKET")
	AWS_S3_ENDPOINT = viper.GetString("AWS_S3_ENDPOINT")
}
