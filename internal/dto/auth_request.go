package dto

type SignupRequest struct {
	FirstName string `json:"firstName" binding:"max=64"`
	LastName  string `json:"lastName" binding:"max=64"`
	Email     string `json:"email" binding:"omitempty,email,max=254"`
	Password  string `json:"password" binding:"max=72"`
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
