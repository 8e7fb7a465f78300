package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-hq/workplane/dao/model"
	"github.com/atelier-hq/workplane/internal/util"
	"github.com/atelier-hq/workplane/pkg/access"
)

// newTaskTestRouter wires a TaskMgr over in-memory fakes and a
// middleware that injects the given identity, mirroring what the JWT
// middleware does in production.
func newTaskTestRouter(
	projects *fakeProjectDB, tasks *fakeTaskDB, users *fakeUserDB, alerter *fakeAlerter, msg util.JWTMessage,
) *gin.Engine {
	gin.SetMode(gin.TestMode)
	conf := &RegisterConfig{
		Resolver: access.NewResolver(projects, newFakeSpaceDB()),
		Alerter:  alerter,
		Projects: projects,
		Tasks:    tasks,
		Users:    users,
	}
	mgr, _ := NewTaskMgr(conf).(*TaskMgr)

	r := gin.New()
	g := r.Group("/v1/tasks")
	g.Use(func(c *gin.Context) { util.SetJWTContext(c, msg) })
	mgr.RegisterProtected(g)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateTaskAsViewerForbidden(t *testing.T) {
	projects := newFakeProjectDB()
	projects.addProject(1, 10)
	projects.addMember(1, 5, model.MemberRoleViewer)
	users := newFakeUserDB()
	users.addUser(5, 10, "vera")

	r := newTaskTestRouter(projects, newFakeTaskDB(), users, &fakeAlerter{},
		util.JWTMessage{UserID: 5, Username: "vera", OrgID: 10, RolePlatform: model.RoleMember})

	w := postJSON(t, r, "/v1/tasks", TaskCreateReq{ProjectID: 1, Title: "write docs"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateTaskAssignsAndNotifies(t *testing.T) {
	projects := newFakeProjectDB()
	projects.addProject(1, 10)
	projects.addMember(1, 5, model.MemberRoleOwner)
	users := newFakeUserDB()
	users.addUser(5, 10, "olga")
	users.addUser(6, 10, "ana")
	tasks := newFakeTaskDB()
	alerter := &fakeAlerter{}

	r := newTaskTestRouter(projects, tasks, users, alerter,
		util.JWTMessage{UserID: 5, Username: "olga", OrgID: 10, RolePlatform: model.RoleMember})

	assignee := uint(6)
	w := postJSON(t, r, "/v1/tasks", TaskCreateReq{ProjectID: 1, Title: "write docs", AssigneeID: &assignee})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data TaskResp `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "write docs", resp.Data.Title)
	assert.Equal(t, model.TaskPending, resp.Data.Status)
	require.NotNil(t, resp.Data.AssigneeID)
	assert.Equal(t, assignee, *resp.Data.AssigneeID)

	// Notification fan-out reached the assignee, and the mutation was
	// written to the audit trail.
	assert.Equal(t, []uint{6}, alerter.assigned)
	require.Len(t, tasks.audits, 1)
	assert.Equal(t, "created", tasks.audits[0].Action)
}

func TestCreateTaskCrossOrgAssigneeRejected(t *testing.T) {
	projects := newFakeProjectDB()
	projects.addProject(1, 10)
	projects.addMember(1, 5, model.MemberRoleOwner)
	users := newFakeUserDB()
	users.addUser(5, 10, "olga")
	users.addUser(9, 99, "mallory") // different org

	r := newTaskTestRouter(projects, newFakeTaskDB(), users, &fakeAlerter{},
		util.JWTMessage{UserID: 5, Username: "olga", OrgID: 10, RolePlatform: model.RoleMember})

	assignee := uint(9)
	w := postJSON(t, r, "/v1/tasks", TaskCreateReq{ProjectID: 1, Title: "x", AssigneeID: &assignee})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateNestedSubtaskRejected(t *testing.T) {
	projects := newFakeProjectDB()
	projects.addProject(1, 10)
	projects.addMember(1, 5, model.MemberRoleMember)
	users := newFakeUserDB()
	users.addUser(5, 10, "olga")
	tasks := newFakeTaskDB()

	parent := uint(0)
	root := &model.Task{ProjectID: 1, Title: "root", Status: model.TaskPending, Priority: model.PriorityMedium}
	require.NoError(t, tasks.Create(t.Context(), root))
	parent = root.ID
	sub := &model.Task{ProjectID: 1, Title: "sub", Status: model.TaskPending,
		Priority: model.PriorityMedium, ParentTaskID: &parent}
	require.NoError(t, tasks.Create(t.Context(), sub))

	r := newTaskTestRouter(projects, tasks, users, &fakeAlerter{},
		util.JWTMessage{UserID: 5, Username: "olga", OrgID: 10, RolePlatform: model.RoleMember})

	w := postJSON(t, r, "/v1/tasks", TaskCreateReq{ProjectID: 1, Title: "nested", ParentTaskID: &sub.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompleteTaskNotifiesAssignee(t *testing.T) {
	projects := newFakeProjectDB()
	projects.addProject(1, 10)
	projects.addMember(1, 5, model.MemberRoleAdmin)
	users := newFakeUserDB()
	users.addUser(5, 10, "olga")
	users.addUser(6, 10, "ana")
	tasks := newFakeTaskDB()
	alerter := &fakeAlerter{}

	assignee := uint(6)
	task := &model.Task{ProjectID: 1, Title: "ship it", Status: model.TaskInProgress,
		Priority: model.PriorityHigh, AssigneeID: &assignee}
	require.NoError(t, tasks.Create(t.Context(), task))

	r := newTaskTestRouter(projects, tasks, users, alerter,
		util.JWTMessage{UserID: 5, Username: "olga", OrgID: 10, RolePlatform: model.RoleMember})

	req := httptest.NewRequest(http.MethodPut, "/v1/tasks/1/status",
		bytes.NewReader([]byte(`{"status":3}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, model.TaskCompleted, tasks.tasks[1].Status)
	assert.Equal(t, []uint{6}, alerter.completed)
}

func TestGetTaskWithoutMembershipForbidden(t *testing.T) {
	projects := newFakeProjectDB()
	projects.addProject(1, 10) // caller is not a member
	users := newFakeUserDB()
	users.addUser(5, 10, "olga")
	tasks := newFakeTaskDB()
	task := &model.Task{ProjectID: 1, Title: "secret", Status: model.TaskPending, Priority: model.PriorityLow}
	require.NoError(t, tasks.Create(t.Context(), task))

	r := newTaskTestRouter(projects, tasks, users, &fakeAlerter{},
		util.JWTMessage{UserID: 5, Username: "olga", OrgID: 10, RolePlatform: model.RoleMember})

	req := httptest.NewRequest(http.MethodGet, "/v1/tasks/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
