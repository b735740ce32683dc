package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/program-ledger/console/internal/history"
	"github.com/program-ledger/console/internal/models"
)

type HistoryPage struct {
	Page
	Entries     []HistoryEntry
	Current     history.Page
	HasPrevious bool
	HasNext     bool
	Previous    history.Page
	Next        history.Page
}

// HistoryEntry is an audit log line with its display timestamps.
type HistoryEntry struct {
	models.EditHistoryEntry
	EditedAtDisplay string
	EditedAgo       string
}

func (co Controller) RegisterHistoryRoutes(r *gin.RouterGroup) {
	r.GET("", co.GetHistory)
}

// GetHistory renders one page of the edit history, newest first.
func (co Controller) GetHistory(c *gin.Context) {
	page := history.ParsePage(c.Query("page"))

	entries, err := co.Backend.EditHistory(ctx(c), page.Skip(), page.Limit())
	if err != nil {
		co.renderError(c, err)
		return
	}

	now := co.Now()
	rows := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, HistoryEntry{
			EditHistoryEntry: e,
			EditedAtDisplay:  co.Format.DateTime(e.EditedAt.Time()),
			EditedAgo:        co.Format.Relative(e.EditedAt.Time(), now),
		})
	}

	c.HTML(http.StatusOK, "history.html", HistoryPage{
		Page:        co.page(c, "Edit History", navHistory),
		Entries:     rows,
		Current:     page,
		HasPrevious: page.HasPrevious(),
		HasNext:     page.HasNext(len(entries)),
		Previous:    page.Previous(),
		Next:        page.Next(),
	})
}
