package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"parkspot/database"
	"parkspot/models"
	"parkspot/routes"
	"parkspot/services"
	"parkspot/utils"
)

func main() {
	// 載入 .env 檔案
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using default environment variables: %v", err)
	}

	// 初始化 JWTSecret
	utils.InitJWTSecret()

	// 初始化資料庫
	database.InitDB()

	// 執行資料庫遷移
	database.DB.AutoMigrate(
		&models.Member{},
		&models.Vehicle{},
		&models.Space{},
		&models.ParkingSession{},
		&models.Reservation{},
	)
	log.Println("Database migration completed")

	// 確保預設管理員存在
	ensureAdminExists()

	// 設置 Gin 模式
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "" {
		ginMode = gin.ReleaseMode
	}
	gin.SetMode(ginMode)
	log.Printf("Gin mode set to %s", ginMode)

	// 初始化 Gin 路由器
	r := gin.Default()

	// 創建一個 API 路由組
	api := r.Group("/api")
	{
		routes.Path(api)
	}

	// 啟動定時任務
	c := cron.New()

	// 預約對帳定時任務（每 5 分鐘執行一次）：
	// 把時間窗已開始的已確認預約升為 reserved、收回過期的 reserved 狀態
	_, err := c.AddFunc("*/5 * * * *", func() {
		log.Println("Running reservation reconciliation...")
		if err := services.ReconcileReservations(); err != nil {
			log.Printf("Failed to reconcile reservations: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule reservation reconciliation cron job: %v", err)
	}

	c.Start()
	log.Println("Cron jobs started")

	// 啟動伺服器
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting server on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// ensureAdminExists 檢查並創建預設管理員
func ensureAdminExists() {
	var admin models.Member
	// 檢查是否已經有 admin 角色
	if err := database.DB.Where("role = ?", models.RoleAdmin).First(&admin).Error; err == nil {
		log.Printf("Admin already exists: email=%s", admin.Email)
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin1234"
		log.Println("ADMIN_PASSWORD not set, using insecure default")
	}

	admin = models.Member{
		Name:  "Administrator",
		Phone: "0000000000",
		Email: "admin@parkspot.local",
		Role:  models.RoleAdmin,
	}

	// 哈希密碼
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}
	admin.Password = hashedPassword

	// 插入資料庫
	if err := database.DB.Create(&admin).Error; err != nil {
		log.Fatalf("Failed to create default admin: %v", err)
	}

	log.Printf("Default admin created: email=%s", admin.Email)
}
