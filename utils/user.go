package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

func GetActiveSeller(ctx *gin.Context) (TokenObject, error) {
	value, exists := ctx.Get("seller")
	if !exists {
		return TokenObject{}, fmt.Errorf("error occurred, not authorized to access this resource")
	}

	seller, ok := value.(TokenObject)
	if !ok {
		return TokenObject{}, fmt.Errorf("an error occurred")
	}

	return seller, nil
}
