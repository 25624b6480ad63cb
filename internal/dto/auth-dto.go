package dto

type RegisterDTO struct {
	Mail     string `json:"mail" validate:"required,strict_email,max=255"`
	Password string `json:"mot_de_passe" validate:"required,min=6,max=72"`
}

type LoginDTO struct {
	Mail     string `json:"mail" validate:"required,strict_email"`
	Password string `json:"mot_de_passe" validate:"required"`
}

type ChangePasswordDTO struct {
	OldPassword string `json:"ancien_mot_de_passe" validate:"required"`
	NewPassword string `json:"nouveau_mot_de_passe" validate:"required,min=6,max=72"`
}

type ChangeMailDTO struct {
	NewMail  string `json:"nouveau_mail" validate:"required,strict_email,max=255"`
	Password string `json:"mot_de_passe" validate:"required"`
}

type UserPublicDTO struct {
	ID   uint64 `json:"id"`
	Mail string `json:"mail"`
}

type UserDTO struct {
	ID        uint64 `json:"id"`
	Mail      string `json:"mail"`
	CreatedAt string `json:"created_at"`
}

type AuthResponseDTO struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	User        UserPublicDTO `json:"user"`
}
