package domain

// OAuthAccount links a local user with an identity at an external OAuth
// provider. (ProviderUserID, ProviderName) is unique per linked account.
type OAuthAccount struct {
	ID             string `json:"id" gorm:"type:uuid;primaryKey"`
	UserID         string `json:"user_id" gorm:"type:uuid;not null;index"`
	User           *User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	ProviderUserID string `json:"oauth_user_id" gorm:"size:255;not null;uniqueIndex:oauth_acc"`
	ProviderName   string `json:"oauth_provider_name" gorm:"size:255;not null;uniqueIndex:oauth_acc"`
}

func (OAuthAccount) TableName() string { return "oauth_accounts" }
