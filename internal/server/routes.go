package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sunpack/boxline/internal/access"
	"github.com/sunpack/boxline/internal/jobs"
	"github.com/sunpack/boxline/internal/notify"
	"github.com/sunpack/boxline/internal/pipeline"
	"gorm.io/gorm"
)

// identity carries the authenticated caller's resolved context for one
// request: parsed roles and machine set, both computed once at the edge.
type identity struct {
	UserID   string
	Roles    access.RoleSet
	Machines access.MachineSet
}

const identityKey = "boxline.identity"

// registerRoutes sets up all API routes on the Gin router.
func registerRoutes(router *gin.Engine, db *gorm.DB, eng *access.Engine, notifier notify.Notifier) {
	router.GET("/healthz", handleHealth(db))

	api := router.Group("/api")
	api.Use(identityMiddleware(db))

	api.GET("/jobs", handleJobList(db, eng))
	api.GET("/jobs/:jobno", handleJobDetail(db, eng))
	api.POST("/plannings", handlePlanningImport(db))
	api.POST("/jobs/:jobno/steps/:step/start", handleTransition(db, eng, notifier, pipeline.ActionStart))
	api.POST("/jobs/:jobno/steps/:step/stop", handleTransition(db, eng, notifier, pipeline.ActionStop))
	api.POST("/jobs/:jobno/steps/:step/hold", handleHold(db, eng))
	api.POST("/jobs/:jobno/steps/:step/resume", handleResume(db, eng))
}

// identityMiddleware reads the verified identity the auth proxy forwards in
// headers, parses the role field once (fail closed on garbage), and
// resolves the user's active machine assignments once.
func identityMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
			return
		}
		roles := access.ParseRoles(c.GetHeader("X-User-Roles"))
		machines, err := access.ResolveUserMachineIDs(db, userID, roles)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Set(identityKey, identity{UserID: userID, Roles: roles, Machines: machines})
		c.Next()
	}
}

func callerIdentity(c *gin.Context) identity {
	v, _ := c.Get(identityKey)
	id, _ := v.(identity)
	return id
}

func handleHealth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// stepView is the wire shape of one step in a listing.
type stepView struct {
	Name     string   `json:"name"`
	Status   string   `json:"status"`
	Machines []string `json:"machines,omitempty"`
}

// jobView is the wire shape of one visible job.
type jobView struct {
	JobNo      string     `json:"jobNo"`
	DemandTier string     `json:"demandTier"`
	Steps      []stepView `json:"steps"`
}

func toJobView(info access.JobInfo) jobView {
	v := jobView{JobNo: info.JobNo, DemandTier: string(info.DemandTier)}
	for _, s := range info.Steps {
		sv := stepView{Name: string(s.Name), Status: string(s.Status)}
		for _, m := range s.Machines {
			sv.Machines = append(sv.Machines, m.ID)
		}
		v.Steps = append(v.Steps, sv)
	}
	return v
}

func handleJobList(db *gorm.DB, eng *access.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := callerIdentity(c)
		visible, err := jobs.ListVisible(db, eng, id.Roles, id.Machines)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		views := make([]jobView, 0, len(visible))
		for _, info := range visible {
			views = append(views, toJobView(info))
		}
		c.JSON(http.StatusOK, gin.H{"jobs": views})
	}
}

func handleJobDetail(db *gorm.DB, eng *access.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := callerIdentity(c)
		jobNo := c.Param("jobno")

		info, ok, err := findSnapshot(db, jobNo)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		// Unknown and invisible jobs look the same to the caller.
		if !ok || !eng.JobVisible(info, id.Roles, id.Machines) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		c.JSON(http.StatusOK, toJobView(info))
	}
}

func handlePlanningImport(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := callerIdentity(c)
		// Only planners and admins create plannings.
		if !id.Machines.IsBypass() {
			c.JSON(http.StatusForbidden, gin.H{"error": "planner role required"})
			return
		}
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}
		payload, err := jobs.ParsePlanningPayload(body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		planning, err := jobs.ImportPlanning(db, payload)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"jobNo": planning.JobNo, "revision": planning.Revision})
	}
}

// authorizeStep runs the per-step visibility check for a mutation and
// returns the snapshot entry when the caller may act on the step.
func authorizeStep(c *gin.Context, db *gorm.DB, eng *access.Engine) (access.JobInfo, pipeline.StepName, bool) {
	id := callerIdentity(c)
	jobNo := c.Param("jobno")
	stepName := pipeline.StepName(c.Param("step"))

	info, ok, err := findSnapshot(db, jobNo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return access.JobInfo{}, "", false
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return access.JobInfo{}, "", false
	}
	for _, s := range info.Steps {
		if s.Name == stepName {
			if !eng.IsStepVisible(s, info, id.Roles, id.Machines) {
				c.JSON(http.StatusForbidden, gin.H{"error": "step not accessible"})
				return access.JobInfo{}, "", false
			}
			return info, stepName, true
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "step not found"})
	return access.JobInfo{}, "", false
}

func handleTransition(db *gorm.DB, eng *access.Engine, notifier notify.Notifier, action pipeline.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := callerIdentity(c)
		info, stepName, ok := authorizeStep(c, db, eng)
		if !ok {
			return
		}

		var err error
		if action == pipeline.ActionStart {
			err = jobs.StartStep(db, info.JobNo, stepName, id.UserID)
		} else {
			err = jobs.StopStep(db, info.JobNo, stepName, id.UserID)
		}
		if err != nil {
			status := http.StatusInternalServerError
			switch {
			case errors.Is(err, jobs.ErrBlocked):
				status = http.StatusConflict
			case errors.Is(err, gorm.ErrRecordNotFound):
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		sendTransitionEvent(c, notifier, info, stepName, id.UserID, action)
		c.JSON(http.StatusOK, gin.H{"jobNo": info.JobNo, "step": string(stepName), "action": string(action)})
	}
}

// sendTransitionEvent pushes chat notifications for high-demand work and
// dispatch completions. Best-effort: failures never fail the request.
func sendTransitionEvent(c *gin.Context, notifier notify.Notifier, info access.JobInfo, stepName pipeline.StepName, userID string, action pipeline.Action) {
	var ev notify.Event
	switch {
	case action == pipeline.ActionStop && stepName == pipeline.DispatchProcess:
		ev = notify.Event{Kind: notify.KindJobDispatched, JobNo: info.JobNo, Tier: string(info.DemandTier)}
	case info.DemandTier == access.TierHigh && action == pipeline.ActionStart:
		ev = notify.Event{Kind: notify.KindStepStarted, JobNo: info.JobNo, Step: string(stepName), User: userID, Tier: string(info.DemandTier)}
	case info.DemandTier == access.TierHigh:
		ev = notify.Event{Kind: notify.KindStepStopped, JobNo: info.JobNo, Step: string(stepName), User: userID, Tier: string(info.DemandTier)}
	default:
		return
	}
	notifier.Send(c.Request.Context(), ev)
}

func handleHold(db *gorm.DB, eng *access.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := callerIdentity(c)
		info, stepName, ok := authorizeStep(c, db, eng)
		if !ok {
			return
		}
		var body struct {
			Reason string `json:"reason"`
		}
		// An empty body is a hold without a reason; anything else must parse.
		if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed body"})
			return
		}
		if err := jobs.HoldStep(db, info.JobNo, stepName, id.UserID, body.Reason); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"jobNo": info.JobNo, "step": string(stepName), "action": "hold"})
	}
}

func handleResume(db *gorm.DB, eng *access.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := callerIdentity(c)
		info, stepName, ok := authorizeStep(c, db, eng)
		if !ok {
			return
		}
		if err := jobs.ResumeStep(db, info.JobNo, stepName, id.UserID); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"jobNo": info.JobNo, "step": string(stepName), "action": "resume"})
	}
}

// findSnapshot returns the snapshot entry for one job number.
func findSnapshot(db *gorm.DB, jobNo string) (access.JobInfo, bool, error) {
	snapshot, err := jobs.Snapshot(db)
	if err != nil {
		return access.JobInfo{}, false, err
	}
	for _, info := range snapshot {
		if info.JobNo == jobNo {
			return info, true, nil
		}
	}
	return access.JobInfo{}, false, nil
}
