package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/tasks"
)

// AdminController exposes maintenance operations.
type AdminController struct {
	reconciler tasks.StatusReconciler
	taskClient *tasks.Client
}

func NewAdminController(reconciler tasks.StatusReconciler, taskClient *tasks.Client) *AdminController {
	return &AdminController{
		reconciler: reconciler,
		taskClient: taskClient,
	}
}

// Reconcile serves POST /api/admin/reconcile. With a task queue available the
// audit runs in the background; otherwise it runs inline and reports the
// number of repaired rows.
func (controller *AdminController) Reconcile(c *gin.Context) {
	if controller.taskClient != nil {
		ids, err := controller.taskClient.Add(tasks.ReconcileStatusTask{}).Save()
		if err != nil {
			respondInternalError(c, err, "enqueue reconcile")
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"task_ids": ids})
		return
	}

	fixed, err := controller.reconciler.ReconcileStatuses()
	if err != nil {
		respondInternalError(c, err, "reconcile statuses")
		return
	}
	c.JSON(http.StatusOK, gin.H{"repaired": fixed})
}
