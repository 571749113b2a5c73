package main

import (
	"log"
	"net/http"
	"vbs/src/db"
	"vbs/src/lib"
	"vbs/src/models"
	"vbs/src/types"
	"vbs/src/utils"

	"github.com/gin-gonic/gin"
)

func registrationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/events/:id/registrations", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			registration, err := utils.RegisterForEvent(params.ID, userId)
			if err != nil {
				log.Printf("[Registrations] Error registering for event %d: %s\n", params.ID, err.Error())
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": registration})
		}).
		GET("/registrations", func(ctx *gin.Context) {
			var query types.PageQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			conn := db.GetDb()
			var total int64
			if err := conn.
				Model(&models.Registration{}).
				Where(&models.Registration{UserID: userId}).
				Count(&total).Error; err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			var registrations []models.Registration
			if err := conn.
				Where(&models.Registration{UserID: userId}).
				Order("created_at desc").
				Scopes(utils.Paginate(query)).
				Preload("Event").
				Preload("Ticket").
				Find(&registrations).Error; err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"data": registrations,
				"meta": utils.BuildPageMeta(total, len(registrations), query),
			})
		})
	return g
}

func purchaseHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/events/:id/purchases", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.CreatePurchaseRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			purchase, err := utils.CreatePurchase(params.ID, body.TicketDefinitionID, userId)
			if err != nil {
				log.Printf("[Purchases] Error creating purchase for event %d: %s\n", params.ID, err.Error())
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": purchase})
		}).
		POST("/purchases/:id/payments", func(ctx *gin.Context) {
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
			var purchase models.Purchase
			if err := conn.
				Where(&models.Purchase{ID: params.ID, UserID: userId}).
				First(&purchase).Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			updated, err := utils.ProcessPurchasePayment(ctx.Request.Context(), params.ID, body.Reference)
			if err != nil {
				log.Printf("[Payments] Error processing purchase payment for %d: %s\n", params.ID, err.Error())
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": updated})
		}).
		GET("/purchases", func(ctx *gin.Context) {
			var query types.PageQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			conn := db.GetDb()
			var total int64
			if err := conn.
				Model(&models.Purchase{}).
				Where(&models.Purchase{UserID: userId}).
				Count(&total).Error; err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			var purchases []models.Purchase
			if err := conn.
				Where(&models.Purchase{UserID: userId}).
				Order("created_at desc").
				Scopes(utils.Paginate(query)).
				Preload("Definition").
				Preload("Invoice").
				Preload("Ticket").
				Find(&purchases).Error; err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"data": purchases,
				"meta": utils.BuildPageMeta(total, len(purchases), query),
			})
		})
	return g
}

func ticketHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/tickets", func(ctx *gin.Context) {
			var query types.PageQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			conn := db.GetDb()
			var total int64
			if err := conn.
				Model(&models.Ticket{}).
				Where(&models.Ticket{OwnerID: userId}).
				Count(&total).Error; err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			var tickets []models.Ticket
			if err := conn.
				Where(&models.Ticket{OwnerID: userId}).
				Order("created_at desc").
				Scopes(utils.Paginate(query)).
				Preload("Event").
				Preload("Definition").
				Find(&tickets).Error; err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"data": tickets,
				"meta": utils.BuildPageMeta(total, len(tickets), query),
			})
		}).
		GET("/tickets/:id/qr", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			conn := db.GetDb()
			var ticket models.Ticket
			if err := conn.
				Where(&models.Ticket{ID: params.ID, OwnerID: userId}).
				First(&ticket).Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			if ticket.QRAssetID == nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "qr code not generated yet"})
				return
			}
			var asset models.Asset
			if err := conn.Where(&models.Asset{ID: *ticket.QRAssetID}).First(&asset).Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			store := lib.GetBlobStore()
			if url, err := store.URL(ctx.Request.Context(), &asset); err == nil && url != nil {
				ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"url": *url}})
				return
			}
			data, err := store.Get(ctx.Request.Context(), &asset)
			if err != nil {
				log.Printf("[Tickets] Error reading QR asset %d: %s\n", asset.ID, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.Data(http.StatusOK, asset.ContentType, data)
		})
	return g
}

func admissionHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/tickets/redeem", func(ctx *gin.Context) {
			var body struct {
				Serial string `json:"serial" binding:"required"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ticket, err := utils.RedeemTicket(body.Serial)
			if err != nil {
				log.Printf("[Admission] Error redeeming ticket %s: %s\n", body.Serial, err.Error())
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticket})
		})
	return g
}
