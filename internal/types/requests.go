package types

// SignupRequest is accepted as form data or JSON.
type SignupRequest struct {
	Email     string `form:"email" json:"email" binding:"required,email,max=254"`
	Name      string `form:"name" json:"name" binding:"required,max=150"`
	Phone     string `form:"phone" json:"phone" binding:"omitempty,max=20"`
	Password  string `form:"password" json:"password" binding:"required,min=8"`
	Password2 string `form:"password2" json:"password2" binding:"required,eqfield=Password"`
}

// LoginRequest identifies the account by email or phone number.
type LoginRequest struct {
	Login    string `form:"login" json:"login" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

type ReviewRequest struct {
	Rating  int    `form:"rating" json:"rating" binding:"required,gte=1,lte=5"`
	Comment string `form:"comment" json:"comment" binding:"max=2000"`
}

type RejectRequest struct {
	ModerationNotes string `form:"moderation_notes" json:"moderation_notes"`
}

// RecipeFilter narrows the public recipe list.
type RecipeFilter struct {
	Genre string `form:"genre"`
	Query string `form:"q"`
}
