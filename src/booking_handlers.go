package main

import (
	"log"
	"net/http"
	"vbs/src/db"
	"vbs/src/models"
	"vbs/src/types"
	"vbs/src/utils"

	"github.com/gin-gonic/gin"
)

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/bookings", func(ctx *gin.Context) {
			var query types.PageQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			conn := db.GetDb()
			var total int64
			if err := conn.
				Model(&models.Booking{}).
				Where(&models.Booking{OrganizerID: userId}).
				Count(&total).Error; err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			var bookings []models.Booking
			if err := conn.
				Where(&models.Booking{OrganizerID: userId}).
				Order("created_at desc").
				Scopes(utils.Paginate(query)).
				Preload("Event").
				Preload("Invoices").
				Find(&bookings).Error; err != nil {
				log.Printf("[Bookings] Error listing bookings: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"data": bookings,
				"meta": utils.BuildPageMeta(total, len(bookings), query),
			})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			conn := db.GetDb()
			var booking models.Booking
			if err := conn.
				Where(&models.Booking{ID: params.ID, OrganizerID: userId}).
				Preload("Event").
				Preload("Venue").
				Preload("Invoices").
				First(&booking).Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		POST("/bookings/:id/payments", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.PayInvoiceRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			conn := db.GetDb()
			var booking models.Booking
			if err := conn.
				Where(&models.Booking{ID: params.ID, OrganizerID: userId}).
				First(&booking).Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			updated, err := utils.ProcessBookingPayment(ctx.Request.Context(), params.ID, body.Reference)
			if err != nil {
				log.Printf("[Payments] Error processing booking payment for %d: %s\n", params.ID, err.Error())
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": updated})
		}).
		GET("/bookings/:id/invoices", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			conn := db.GetDb()
			var booking models.Booking
			if err := conn.
				Where(&models.Booking{ID: params.ID, OrganizerID: userId}).
				First(&booking).Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			var invoices []models.Invoice
			if err := conn.
				Where("booking_id = ?", params.ID).
				Order("id asc").
				Find(&invoices).Error; err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": invoices})
		})
	return g
}

func adminInvoiceHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/invoices", func(ctx *gin.Context) {
			var query types.PageQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			status := ctx.Query("status")
			conn := db.GetDb()
			base := conn.Model(&models.Invoice{})
			if status != "" {
				base = base.Where("status = ?", status)
			}
			var total int64
			if err := base.Count(&total).Error; err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			q := conn.Order("created_at desc").Scopes(utils.Paginate(query))
			if status != "" {
				q = q.Where("status = ?", status)
			}
			var invoices []models.Invoice
			if err := q.Find(&invoices).Error; err != nil {
				log.Printf("[Invoices] Error listing invoices: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"data": invoices,
				"meta": utils.BuildPageMeta(total, len(invoices), query),
			})
		})
	return g
}
