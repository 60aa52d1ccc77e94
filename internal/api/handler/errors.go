package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VeeraVardhan35/campusConnect/internal/scheduling"
	pkgerrors "github.com/VeeraVardhan35/campusConnect/pkg/errors"
	"github.com/VeeraVardhan35/campusConnect/pkg/response"
)

// ConflictDetails 409 响应的 details
type ConflictDetails struct {
	Resource    string   `json:"resource"`
	When        string   `json:"when,omitempty"`
	ConflictIDs []string `json:"conflict_ids,omitempty"`
	Race        bool     `json:"race,omitempty"`
}

// handleCommonError 处理各模块共有的错误类型，未识别的错误返回 500。
// 模块专属的 sentinel 应在调用前由各 Handler 自行处理。
func handleCommonError(c *gin.Context, err error) {
	var (
		validation *pkgerrors.ValidationError
		conflict   *pkgerrors.ConflictError
		notFound   *pkgerrors.NotFoundError
	)
	switch {
	case errors.As(err, &validation):
		details := map[string]string{}
		if validation.Field != "" {
			details[validation.Field] = validation.Reason
		}
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, validation.Error(), details)
	case errors.As(err, &conflict):
		response.Conflict(c, 10009, conflict.Error(), ConflictDetails{
			Resource:    conflict.Resource,
			When:        conflict.When,
			ConflictIDs: conflict.ConflictIDs,
			Race:        errors.Is(err, pkgerrors.ErrIntegrityRace),
		})
	case errors.As(err, &notFound):
		response.NotFound(c, 10006, notFound.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10007, err.Error(), nil)
	case errors.Is(err, scheduling.ErrIllegalTransition):
		response.Conflict(c, 10008, err.Error(), nil)
	default:
		response.InternalError(c)
	}
}
