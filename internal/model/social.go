package model

// FCMToken users/{uid}/fcmTokens/{token} 文档
type FCMToken struct {
	Token     string `json:"token"`
	Platform  string `json:"platform,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// UserSearchResult 用户搜索结果行，关系标志基于好友与已发出的申请
type UserSearchResult struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	Level       int64  `json:"level"`
	IsFriend    bool   `json:"isFriend"`
	IsPending   bool   `json:"isPending"`
}
