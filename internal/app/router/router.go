package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	analysishandler "tradedesk/internal/feature/analysis/transport/handler"
	dashboardhandler "tradedesk/internal/feature/dashboard/transport/handler"
	marketdatahandler "tradedesk/internal/feature/marketdata/transport/handler"
	symbolhandler "tradedesk/internal/feature/symbolcatalog/transport/handler"
	platformhandler "tradedesk/internal/platform/http/handler"
)

func NewRouter(analysis *analysishandler.AnalysisHandler, marketdata *marketdatahandler.MarketdataHandler,
	symbol *symbolhandler.SymbolHandler, dashboard *dashboardhandler.DashboardHandler,
	health *platformhandler.HealthHandler, metrics http.Handler) *gin.Engine {
	r := gin.Default()

	// 導通確認用
	r.GET("/healthz", health.Health)
	r.HEAD("/healthz", health.Health)
	// Prometheus
	r.GET("/metrics", gin.WrapH(metrics))
	// ダッシュボード画面
	r.GET("/", dashboard.Index)

	v1 := r.Group("/v1")
	{
		// 銘柄カタログ
		v1.GET("/categories", symbol.Categories)
		v1.GET("/symbols", symbol.List)
		// 価格系列
		v1.GET("/timeframes", marketdata.Timeframes)
		v1.GET("/candles/:symbol", marketdata.GetCandles)
		// 分析
		v1.GET("/analysis/:symbol", analysis.Analyze)
		v1.GET("/backtest/:symbol", analysis.Backtest)
		v1.POST("/insight/:symbol", analysis.Insight)
	}

	return r
}
