// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "SpiderMap")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "spidermap.log")

	viper.SetDefault("webserver.enabled", true)
	viper.SetDefault("webserver.host", "0.0.0.0")
	viper.SetDefault("webserver.port", "3000")
	viper.SetDefault("webserver.requesttimeout", 30*time.Second)

	viper.SetDefault("database.sqlite.enabled", true)
	viper.SetDefault("database.sqlite.path", "spidermap.db")
	viper.SetDefault("database.mysql.enabled", false)
	viper.SetDefault("database.mysql.username", "spidermap")
	viper.SetDefault("database.mysql.password", "")
	viper.SetDefault("database.mysql.database", "spidermap")
	viper.SetDefault("database.mysql.host", "localhost")
	viper.SetDefault("database.mysql.port", "3306")

	viper.SetDefault("images.directory", "recordImages/")
	viper.SetDefault("images.baseurl", "http://localhost:3000")

	viper.SetDefault("docstore.uri", "mongodb://localhost:27017")
	viper.SetDefault("docstore.database", "spidermap")
	viper.SetDefault("docstore.collection", "records")

	viper.SetDefault("sync.enrichment.limit", 8)
}
