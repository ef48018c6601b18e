// @title FINSTAR 后端 API
// @version 1.0
// @description FINSTAR 金融学习平台的后端服务器。
// @termsOfService http://swagger.io/terms/

// @contact.name API支持
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"finstar_backend/internal/app"
	"finstar_backend/internal/config"
	"finstar_backend/pkg/configwatcher"
	"finstar_backend/pkg/logger"
	"flag"
	"log"
)

func main() {
	configPath := flag.String("config", "configs", "配置文件目录")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 热加载限流、跨域等可在运行期调整的配置
	go configwatcher.WatchConfig(*configPath, cfg, application.ApplyConfig)

	application.Run()
}
