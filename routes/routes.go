package routes

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"parkspot/handlers"
	"parkspot/models"
	"parkspot/utils"
)

// AuthMiddleware 驗證 JWT token，並提取 member_id 和 role
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "缺少 Authorization 標頭",
				"error":   "Authorization header is required",
				"code":    "ERR_NO_AUTH_HEADER",
			})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "無效的 Authorization 格式",
				"error":   "Authorization header must be in the format 'Bearer <token>'",
				"code":    "ERR_INVALID_AUTH_FORMAT",
			})
			c.Abort()
			return
		}

		tokenString := parts[1]

		// 明確要求檢查 exp 字段
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return utils.JWTSecret, nil
		}, jwt.WithExpirationRequired())

		if err != nil {
			log.Printf("Token parsing error: %v", err)
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{
					"status":  false,
					"message": "token 已過期",
					"error":   "Token has expired",
					"code":    "ERR_TOKEN_EXPIRED",
				})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{
					"status":  false,
					"message": "無效的 token",
					"error":   err.Error(),
					"code":    "ERR_INVALID_TOKEN",
				})
			}
			c.Abort()
			return
		}

		// 檢查 Claims 是否有效
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "無效的 token 內容",
				"error":   "Invalid token claims",
				"code":    "ERR_INVALID_CLAIMS",
			})
			c.Abort()
			return
		}

		// 確認 member_id 字段
		memberID, ok := claims["member_id"].(float64)
		if !ok {
			log.Printf("Missing or invalid member_id in token")
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "無效的會員 ID",
				"error":   "Invalid member_id in token",
				"code":    "ERR_INVALID_MEMBER_ID",
			})
			c.Abort()
			return
		}

		// 確認 role 字段
		role, ok := claims["role"].(string)
		if !ok || (role != models.RoleClient && role != models.RoleGuard && role != models.RoleAdmin) {
			log.Printf("Missing or invalid role in token: %v", claims["role"])
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "無效的角色",
				"error":   "Invalid role in token",
				"code":    "ERR_INVALID_ROLE",
			})
			c.Abort()
			return
		}

		c.Set("member_id", int(memberID))
		c.Set("role", role)
		c.Next()
	}
}

// RoleMiddleware 限制端點只允許指定角色，admin 一律放行
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "無法獲取角色資訊",
				"error":   "Role not found in context",
				"code":    "ERR_ROLE_NOT_FOUND",
			})
			c.Abort()
			return
		}

		roleStr, ok := role.(string)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "無效的角色類型",
				"error":   "Invalid role type",
				"code":    "ERR_INVALID_ROLE_TYPE",
			})
			c.Abort()
			return
		}

		// 允許 admin 角色訪問所有端點
		if roleStr == models.RoleAdmin {
			c.Next()
			return
		}

		allowed := false
		for _, allowedRole := range allowedRoles {
			if roleStr == allowedRole {
				allowed = true
				break
			}
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"status":  false,
				"message": "權限不足",
				"error":   "Insufficient role permissions",
				"code":    "ERR_INSUFFICIENT_PERMISSIONS",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func Path(router *gin.RouterGroup) {
	// 版本控制
	v1 := router.Group("/v1")
	{
		// 測試路由
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(200, gin.H{"message": "pong"})
		})

		// 會員路由
		members := v1.Group("/members")
		{
			// 公開路由：不需要 token 驗證
			members.POST("/register", handlers.RegisterMember) // 註冊會員
			members.POST("/login", handlers.LoginMember)       // 登入會員並獲取 token

			// 受保護路由：需要 token 驗證
			membersWithAuth := members.Group("")
			membersWithAuth.Use(AuthMiddleware())
			{
				membersWithAuth.GET("/profile", handlers.GetMyProfile) // 查看個人資料
			}
		}

		// 車輛路由：客戶管理自己的車輛
		vehicles := v1.Group("/vehicles")
		vehicles.Use(AuthMiddleware())
		{
			vehicles.GET("", RoleMiddleware(models.RoleClient), handlers.GetMyVehicles)
			vehicles.POST("", RoleMiddleware(models.RoleClient), handlers.CreateVehicle)
			vehicles.PUT("/:id", RoleMiddleware(models.RoleClient), handlers.UpdateVehicle)
			vehicles.DELETE("/:id", RoleMiddleware(models.RoleClient), handlers.DeleteVehicle)
		}

		// 車位路由
		spaces := v1.Group("/spaces")
		spaces.Use(AuthMiddleware())
		{
			// 查詢：所有已認證角色都可以訪問
			spaces.GET("", handlers.GetSpaces)                     // 列出車位，可帶 status / type 過濾
			spaces.GET("/available", handlers.GetAvailableSpaces)  // 列出可用車位
			// 營運看板：警衛與管理員
			spaces.GET("/board", RoleMiddleware(models.RoleGuard), handlers.GetSpaceBoard)
			// 車位管理：僅 admin 可以操作
			spaces.POST("", RoleMiddleware(), handlers.CreateSpace)
			spaces.PUT("/:id", RoleMiddleware(), handlers.UpdateSpace)
			spaces.DELETE("/:id", RoleMiddleware(), handlers.DeleteSpace)
		}

		// 停車紀錄路由
		sessions := v1.Group("/sessions")
		sessions.Use(AuthMiddleware())
		{
			// 進出場與搬移：警衛登記進出場，搬移僅 admin
			sessions.POST("/entry", RoleMiddleware(models.RoleGuard), handlers.RegisterEntry)
			sessions.POST("/exit", RoleMiddleware(models.RoleGuard), handlers.RegisterExit)
			sessions.POST("/move", RoleMiddleware(), handlers.MoveSession)
			// 查詢：警衛與管理員看全部，客戶看自己的
			sessions.GET("", RoleMiddleware(models.RoleGuard), handlers.GetSessions)
			sessions.GET("/active", RoleMiddleware(models.RoleGuard), handlers.GetActiveSessions)
			sessions.GET("/mine", RoleMiddleware(models.RoleClient), handlers.GetMySessions)
		}

		// 預約路由
		reservations := v1.Group("/reservations")
		reservations.Use(AuthMiddleware())
		{
			// 建立與查詢自己的預約：僅 client
			reservations.POST("", RoleMiddleware(models.RoleClient), handlers.CreateReservation)
			reservations.GET("/mine", RoleMiddleware(models.RoleClient), handlers.GetMyReservations)
			// 審核：僅 admin
			reservations.GET("/pending", RoleMiddleware(), handlers.GetPendingReservations)
			reservations.PUT("/:id/approve", RoleMiddleware(), handlers.ApproveReservation)
			reservations.PUT("/:id/reject", RoleMiddleware(), handlers.RejectReservation)
		}
	}
}
