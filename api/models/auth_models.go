package models

import (
	"time"

	db "github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/db/sqlc"
)

type SellerRegisterParams struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
}

type SellerLoginParams struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SellerResponse struct {
	ID            int64     `json:"id"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	BankVerified  bool      `json:"bank_verified"`
	BankName      string    `json:"bank_name,omitempty"`
	AccountNumber string    `json:"account_number,omitempty"`
	AccountName   string    `json:"account_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func ToSellerResponse(seller *db.Seller) SellerResponse {
	return SellerResponse{
		ID:            seller.ID,
		FullName:      seller.FullName,
		Email:         seller.Email,
		Phone:         seller.Phone.String,
		BankVerified:  seller.BankVerified,
		BankName:      seller.BankName.String,
		AccountNumber: seller.AccountNumber.String,
		AccountName:   seller.AccountName.String,
		CreatedAt:     seller.CreatedAt,
	}
}

type LoginResponse struct {
	Token  string         `json:"token"`
	Seller SellerResponse `json:"seller"`
}
