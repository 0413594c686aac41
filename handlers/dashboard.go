package handlers

import (
	"log"
	"net/http"
	"time"

	"delivery-backend/middleware"
	"delivery-backend/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	DB *gorm.DB
}

type statusCount struct {
	Status string
	Count  int64
}

type todayTotals struct {
	Orders  int64
	Revenue decimal.Decimal
}

// dashboardFilter mirrors scoped for hand-built SQL. Ids go in as strings:
// squirrel expands array values such as uuid.UUID into IN lists.
func dashboardFilter(c *gin.Context) sq.Sqlizer {
	if !middleware.IsAdmin(c) {
		estID, _ := middleware.EstablishmentID(c)
		return sq.Eq{"establishment_id": estID.String()}
	}
	if id, err := uuid.Parse(c.Query("establishment_id")); err == nil {
		return sq.Eq{"establishment_id": id.String()}
	}
	return sq.Expr("1 = 1")
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// GetDashboard reports order counts per status plus today's volume.
// Cancelled orders never count as revenue.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	filter := dashboardFilter(c)

	byStatusSQL, args, err := sq.Select("status", "COUNT(*) AS count").
		From("orders").
		Where(filter).
		GroupBy("status").
		ToSql()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard query"})
		return
	}
	var rows []statusCount
	if err := h.DB.Raw(byStatusSQL, args...).Scan(&rows).Error; err != nil {
		log.Printf("Dashboard status query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	counts := make(map[models.OrderStatus]int64, len(models.AllowedTransitions))
	for status := range models.AllowedTransitions {
		counts[status] = 0
	}
	for _, r := range rows {
		counts[models.OrderStatus(r.Status)] = r.Count
	}

	todaySQL, args, err := sq.Select("COUNT(*) AS orders", "COALESCE(SUM(total), 0) AS revenue").
		From("orders").
		Where(filter).
		Where(sq.GtOrEq{"created_at": startOfDay(time.Now())}).
		Where(sq.NotEq{"status": string(models.OrderStatusCancelled)}).
		ToSql()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard query"})
		return
	}
	var today todayTotals
	if err := h.DB.Raw(todaySQL, args...).Scan(&today).Error; err != nil {
		log.Printf("Dashboard totals query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	average := decimal.Zero
	if today.Orders > 0 {
		average = today.Revenue.Div(decimal.NewFromInt(today.Orders)).Round(2)
	}

	c.JSON(http.StatusOK, gin.H{
		"orders_by_status": counts,
		"today_orders":     today.Orders,
		"today_revenue":    today.Revenue.Round(2),
		"average_ticket":   average,
	})
}
