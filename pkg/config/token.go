package config

// TokenConf carries the JWT signing settings.
type TokenConf struct {
	AccessTokenSecret      string
	RefreshTokenSecret     string
	AccessTokenExpiryHour  int
	RefreshTokenExpiryHour int
}

func NewTokenConf() *TokenConf {
	c := GetConfig()
	access := c.Auth.AccessTokenExpiryHour
	if access == 0 {
		access = 2
	}
	refresh := c.Auth.RefreshTokenExpiryHour
	if refresh == 0 {
		refresh = 48
	}
	return &TokenConf{
		AccessTokenSecret:      c.Auth.AccessTokenSecret,
		RefreshTokenSecret:     c.Auth.RefreshTokenSecret,
		AccessTokenExpiryHour:  access,
		RefreshTokenExpiryHour: refresh,
	}
}
