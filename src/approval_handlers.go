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

func approvalHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/approvals", func(ctx *gin.Context) {
			var query types.PageQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			status := ctx.DefaultQuery("status", string(types.APPROVAL_PENDING))
			conn := db.GetDb()
			var total int64
			if err := conn.
				Model(&models.Approval{}).
				Where("status = ?", status).
				Count(&total).Error; err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			var approvals []models.Approval
			if err := conn.
				Where("status = ?", status).
				Order("created_at asc").
				Scopes(utils.Paginate(query)).
				Find(&approvals).Error; err != nil {
				log.Printf("[Approvals] Error listing approvals: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"data": approvals,
				"meta": utils.BuildPageMeta(total, len(approvals), query),
			})
		}).
		PATCH("/approvals/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdateApprovalRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			adminId := ctx.GetUint("id")
			if err := utils.UpdateApprovalStatus(params.ID, adminId, body.Status, body.Notes); err != nil {
				log.Printf("[Approvals] Error updating approval %d: %s\n", params.ID, err.Error())
				abortWithError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}

func profileHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/organizer-applications", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			role := ctx.GetString("role")
			if role == types.ROLE_ORGANIZER || role == types.ROLE_ADMIN {
				ctx.JSON(http.StatusConflict, gin.H{"error": "account already has organizer access"})
				return
			}
			conn := db.GetDb()
			var pending int64
			if err := conn.
				Model(&models.Approval{}).
				Where(&models.Approval{
					TargetKind: types.APPROVAL_TARGET_ORGANIZER_PROFILE,
					TargetID:   userId,
					Status:     types.APPROVAL_PENDING,
				}).
				Count(&pending).Error; err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			if pending > 0 {
				ctx.JSON(http.StatusConflict, gin.H{"error": "an application is already pending"})
				return
			}
			target := types.OrganizerProfileTarget(userId)
			approval := models.Approval{
				TargetKind: target.Kind,
				TargetID:   target.ID,
				Status:     types.APPROVAL_PENDING,
			}
			if err := conn.Create(&approval).Error; err != nil {
				log.Printf("[Approvals] Error creating organizer application for user %d: %s\n", userId, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": approval})
		})
	return g
}

func settingsHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/settings", func(ctx *gin.Context) {
			group := ctx.Query("group")
			conn := db.GetDb()
			q := conn.Model(&models.Setting{})
			if group != "" {
				q = q.Where(&models.Setting{Group: group})
			}
			var settings []models.Setting
			if err := q.Order("setting_key asc").Find(&settings).Error; err != nil {
				log.Printf("[Settings] Error listing settings: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": settings})
		}).
		POST("/settings", func(ctx *gin.Context) {
			var body types.CreateSettingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			conn := db.GetDb()
			setting := models.Setting{
				SettingKey:   body.Key,
				SettingValue: types.JSONBAny{Inner: body.Value},
				Group:        body.Group,
			}
			var existing models.Setting
			err := conn.Where(&models.Setting{SettingKey: body.Key, Group: body.Group}).First(&existing).Error
			if err == nil {
				if err := conn.
					Model(&models.Setting{}).
					Where(&models.Setting{ID: existing.ID}).
					Update("setting_value", types.JSONBAny{Inner: body.Value}).Error; err != nil {
					ctx.Status(http.StatusInternalServerError)
					return
				}
				ctx.Status(http.StatusNoContent)
				return
			}
			if err := conn.Create(&setting).Error; err != nil {
				log.Printf("[Settings] Error creating setting %s: %s\n", body.Key, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": setting})
		})
	return g
}
