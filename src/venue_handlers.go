package main

import (
	"fmt"
	"log"
	"net/http"
	"vbs/src/db"
	"vbs/src/models"
	"vbs/src/types"
	"vbs/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

func publicVenueHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/venues", func(ctx *gin.Context) {
			var query types.PageQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			conn := db.GetDb()
			var total int64
			if err := conn.Model(&models.Venue{}).Count(&total).Error; err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			var venues []models.Venue
			if err := conn.
				Order("name asc").
				Scopes(utils.Paginate(query)).
				Find(&venues).Error; err != nil {
				log.Printf("[Venues] Error listing venues: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"data": venues,
				"meta": utils.BuildPageMeta(total, len(venues), query),
			})
		}).
		GET("/venues/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			conn := db.GetDb()
			var venue models.Venue
			if err := conn.Where(&models.Venue{ID: params.ID}).First(&venue).Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": venue})
		})
	return g
}

func adminVenueHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/venues", func(ctx *gin.Context) {
			var body types.CreateVenueRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error in validating request: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			venue := models.Venue{
				Name:         body.Name,
				Slug:         fmt.Sprintf("%s-%s", slug.Make(body.Name), uuid.NewString()[:8]),
				Location:     body.Location,
				Type:         body.Type,
				Capacity:     body.Capacity,
				RateType:     body.RateType,
				Price:        body.Price,
				DepositValue: body.DepositValue,
				ImageURLs:    types.StringArray(body.ImageURLs),
			}
			conn := db.GetDb()
			if err := conn.Create(&venue).Error; err != nil {
				log.Printf("[Venues] Error creating venue: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": venue})
		}).
		PATCH("/venues/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdateVenueRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			updates := map[string]any{}
			if body.Name != nil {
				updates["name"] = *body.Name
			}
			if body.Location != nil {
				updates["location"] = *body.Location
			}
			if body.Capacity != nil {
				updates["capacity"] = *body.Capacity
			}
			if body.Type != nil {
				updates["type"] = *body.Type
			}
			if body.RateType != nil {
				updates["rate_type"] = *body.RateType
			}
			if body.Price != nil {
				updates["price"] = *body.Price
			}
			if body.DepositValue != nil {
				updates["deposit_value"] = *body.DepositValue
			}
			if body.ImageURLs != nil {
				updates["image_urls"] = types.StringArray(*body.ImageURLs)
			}
			conn := db.GetDb()
			var venue models.Venue
			if err := conn.Where(&models.Venue{ID: params.ID}).First(&venue).Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			if len(updates) > 0 {
				if err := conn.
					Model(&models.Venue{}).
					Where(&models.Venue{ID: params.ID}).
					Updates(updates).Error; err != nil {
					log.Printf("[Venues] Error updating venue %d: %s\n", params.ID, err.Error())
					ctx.Status(http.StatusInternalServerError)
					return
				}
			}
			ctx.Status(http.StatusNoContent)
		}).
		DELETE("/venues/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			conn := db.GetDb()
			var venue models.Venue
			if err := conn.Where(&models.Venue{ID: params.ID}).First(&venue).Error; err != nil {
				abortWithError(ctx, err)
				return
			}
			var active int64
			if err := conn.
				Model(&models.Event{}).
				Where("venue_id = ? AND status IN (?)", params.ID, []types.EventStatus{
					types.EVENT_PUBLISHED,
					types.EVENT_ONGOING,
				}).
				Count(&active).Error; err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			if active > 0 {
				ctx.JSON(http.StatusConflict, gin.H{"error": "venue has active events"})
				return
			}
			if err := conn.Delete(&venue).Error; err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
