package handlers

import (
	"net/http"

	request "sports_booking/internal/adapter/http/dto/request"
	response "sports_booking/internal/adapter/http/dto/response"
	"sports_booking/internal/usecase"

	"github.com/gin-gonic/gin"
)

type QuoteHandler struct {
	usecase usecase.IQuoteUseCase
}

func NewQuoteHandler(uc usecase.IQuoteUseCase) *QuoteHandler {
	return &QuoteHandler{usecase: uc}
}

// GetQuote godoc
// @Summary      Price a slot
// @Tags         quotes
// @Produce      json
// @Param        court_id  query     int       true   "Court ID"
// @Param        slot_id   query     int       true   "Slot ID"
// @Param        extras    query     []string  false  "Extras (ball, vest, lights)"  collectionFormat(multi)
// @Success      200       {object}  response.QuoteResponse
// @Failure      422       {object}  pkg.HTTPError
// @Router       /quotes [get]
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	var q request.QuoteRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, validationError("court_id and slot_id are required"))
		return
	}
	quote := h.usecase.Calculate(q.CourtID, q.SlotID, q.ResolveExtras())
	c.JSON(http.StatusOK, response.FromQuote(quote))
}
