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

func publicEventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events", func(ctx *gin.Context) {
			var query types.PageQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			conn := db.GetDb()
			var total int64
			if err := conn.
				Model(&models.Event{}).
				Where("status IN (?)", []types.EventStatus{types.EVENT_PUBLISHED, types.EVENT_ONGOING}).
				Count(&total).Error; err != nil {
				log.Printf("[Events] Error counting events: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			var events []models.Event
			if err := conn.
				Where("status IN (?)", []types.EventStatus{types.EVENT_PUBLISHED, types.EVENT_ONGOING}).
				Order("starts_at asc").
				Scopes(utils.Paginate(query)).
				Preload("Venue").
				Find(&events).Error; err != nil {
				log.Printf("[Events] Error listing events: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"data": events,
				"meta": utils.BuildPageMeta(total, len(events), query),
			})
		}).
		GET("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			conn := db.GetDb()
			var event models.Event
			if err := conn.
				Where(&models.Event{ID: params.ID}).
				Preload("Venue").
				Preload("TicketDefinitions").
				First(&event).Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": event})
		})
	return g
}

func eventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/events", func(ctx *gin.Context) {
			var body types.CreateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error in validating request: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			eventId, err := utils.CreateNewEvent(&body, userId)
			if err != nil {
				log.Printf("[Events] Error creating event: %s\n", err.Error())
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": gin.H{"id": eventId}})
		}).
		PATCH("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			conn := db.GetDb()
			var event models.Event
			if err := conn.
				Where(&models.Event{ID: params.ID, OrganizerID: userId}).
				First(&event).Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			if err := utils.UpdateEvent(params.ID, &body); err != nil {
				log.Printf("[Events] Error updating event %d: %s\n", params.ID, err.Error())
				abortWithError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		DELETE("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			conn := db.GetDb()
			var event models.Event
			if err := conn.
				Where(&models.Event{ID: params.ID, OrganizerID: userId}).
				First(&event).Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			if err := utils.DeleteEvent(params.ID); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		PATCH("/events/:id/publish", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			conn := db.GetDb()
			var event models.Event
			if err := conn.
				Where(&models.Event{ID: params.ID, OrganizerID: userId}).
				First(&event).Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			if err := utils.PublishEvent(params.ID); err != nil {
				log.Printf("[Events] Error publishing event %d: %s\n", params.ID, err.Error())
				abortWithError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		GET("/events/own", func(ctx *gin.Context) {
			var query types.PageQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			conn := db.GetDb()
			var total int64
			if err := conn.
				Model(&models.Event{}).
				Where(&models.Event{OrganizerID: userId}).
				Count(&total).Error; err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			var events []models.Event
			if err := conn.
				Where(&models.Event{OrganizerID: userId}).
				Order("created_at desc").
				Scopes(utils.Paginate(query)).
				Preload("Booking").
				Find(&events).Error; err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"data": events,
				"meta": utils.BuildPageMeta(total, len(events), query),
			})
		})
	return g
}

func adminEventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		PATCH("/events/:id/status", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.SetEventStatusRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			adminId := ctx.GetUint("id")
			if err := utils.SetEventStatus(params.ID, adminId, body.NewStatus); err != nil {
				log.Printf("[Events] Error setting status for event %d: %s\n", params.ID, err.Error())
				abortWithError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
