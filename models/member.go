package models

// 會員角色
const (
	RoleClient = "client" // 停車客戶
	RoleGuard  = "guard"  // 登記進出場的警衛
	RoleAdmin  = "admin"  // 管理車位與審核預約
)

type Member struct {
	MemberID int       `json:"member_id" gorm:"primaryKey;autoIncrement"`
	Name     string    `json:"name" gorm:"type:varchar(50);not null"`
	Phone    string    `json:"phone" gorm:"type:varchar(20);not null"`
	Password string    `json:"password" gorm:"type:varchar(100);not null"`
	Role     string    `json:"role" gorm:"type:varchar(10);not null"`
	Email    string    `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Vehicles []Vehicle `json:"-" gorm:"foreignKey:MemberID;references:MemberID"`
}

func (Member) TableName() string {
	return "member"
}

// IsClient 是否具備客戶身分
func (m *Member) IsClient() bool {
	return m.Role == RoleClient
}

// IsGuard 是否具備警衛身分
func (m *Member) IsGuard() bool {
	return m.Role == RoleGuard
}

// IsAdmin 是否具備管理員身分
func (m *Member) IsAdmin() bool {
	return m.Role == RoleAdmin
}

type MemberResponse struct {
	MemberID int    `json:"member_id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Email    string `json:"email"`
}

func (m *Member) ToResponse() MemberResponse {
	return MemberResponse{
		MemberID: m.MemberID,
		Name:     m.Name,
		Phone:    m.Phone,
		Role:     m.Role,
		Email:    m.Email,
	}
}
