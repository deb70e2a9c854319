package dto

type SignUpRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	CheckPassword string `json:"checkPassword"`
}

type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type UserResponse struct {
	GUUID        string   `json:"guuid"`
	Username     string   `json:"username"`
	Roles        []string `json:"roles"`
	ProfileImage string   `json:"profileImage,omitempty"`
	CreatedAt    string   `json:"createdAt"`
}
