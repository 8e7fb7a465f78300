package handler

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/atelier-hq/workplane/dao/model"
	"github.com/atelier-hq/workplane/internal/resputil"
	"github.com/atelier-hq/workplane/internal/util"
	"github.com/atelier-hq/workplane/pkg/access"
	"github.com/atelier-hq/workplane/pkg/alert"
	taskdb "github.com/atelier-hq/workplane/pkg/db/task"
	userdb "github.com/atelier-hq/workplane/pkg/db/user"
	"github.com/atelier-hq/workplane/pkg/domain"
	"github.com/atelier-hq/workplane/pkg/filestore"
	"github.com/atelier-hq/workplane/pkg/logutils"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewTaskMgr)
}

type TaskMgr struct {
	name      string
	resolver  *access.Resolver
	alerter   alert.AlertInterface
	filestore filestore.Service
	tasks     taskdb.DBService
	users     userdb.DBService
}

func NewTaskMgr(conf *RegisterConfig) Manager {
	return &TaskMgr{
		name:      "tasks",
		resolver:  conf.Resolver,
		alerter:   conf.Alerter,
		filestore: conf.FileStore,
		tasks:     conf.Tasks,
		users:     conf.Users,
	}
}

func (mgr *TaskMgr) GetName() string { return mgr.name }

func (mgr *TaskMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *TaskMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("", mgr.ListTasks)
	g.POST("", mgr.CreateTask)
	g.GET(":id", mgr.GetTask)
	g.PUT(":id", mgr.UpdateTask)
	g.DELETE(":id", mgr.DeleteTask)
	g.PUT(":id/status", mgr.UpdateStatus)
	g.GET(":id/subtasks", mgr.ListSubtasks)
	g.GET(":id/comments", mgr.ListComments)
	g.POST(":id/comments", mgr.AddComment)
	g.DELETE(":id/comments/:commentId", mgr.DeleteComment)
	g.GET(":id/attachments", mgr.ListAttachments)
	g.POST(":id/attachments", mgr.UploadAttachment)
	g.DELETE(":id/attachments/:attachmentId", mgr.DeleteAttachment)
	g.GET(":id/history", mgr.ListHistory)
}

func (mgr *TaskMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type (
	TaskCreateReq struct {
		ProjectID    uint               `json:"projectId" binding:"required"`
		Title        string             `json:"title" binding:"required"`
		Description  *string            `json:"description"`
		Priority     model.TaskPriority `json:"priority"`
		DueDate      *time.Time         `json:"dueDate"`
		AssigneeID   *uint              `json:"assigneeId"`
		SprintID     *uint              `json:"sprintId"`
		EpicID       *uint              `json:"epicId"`
		ParentTaskID *uint              `json:"parentTaskId"`
	}

	TaskUpdateReq struct {
		Title       *string             `json:"title"`
		Description *string             `json:"description"`
		Priority    *model.TaskPriority `json:"priority"`
		DueDate     *time.Time          `json:"dueDate"`
		AssigneeID  *uint               `json:"assigneeId"`
		SprintID    *uint               `json:"sprintId"`
		EpicID      *uint               `json:"epicId"`
	}

	TaskStatusReq struct {
		Status model.TaskStatus `json:"status" binding:"required"`
	}

	CommentReq struct {
		Body string `json:"body" binding:"required"`
	}

	TaskResp struct {
		ID           uint               `json:"id"`
		ProjectID    uint               `json:"projectId"`
		Title        string             `json:"title"`
		Description  *string            `json:"description"`
		Status       model.TaskStatus   `json:"status"`
		Priority     model.TaskPriority `json:"priority"`
		DueDate      *time.Time         `json:"dueDate"`
		AssigneeID   *uint              `json:"assigneeId"`
		SprintID     *uint              `json:"sprintId"`
		EpicID       *uint              `json:"epicId"`
		ParentTaskID *uint              `json:"parentTaskId"`
	}

	CommentResp struct {
		ID        uint      `json:"id"`
		UserID    uint      `json:"userId"`
		Body      string    `json:"body"`
		CreatedAt time.Time `json:"createdAt"`
	}

	AttachmentResp struct {
		ID          uint   `json:"id"`
		UserID      uint   `json:"userId"`
		FileName    string `json:"fileName"`
		URL         string `json:"url"`
		ContentType string `json:"contentType"`
		Size        int64  `json:"size"`
	}

	AuditLogResp struct {
		ID        uint            `json:"id"`
		UserID    uint            `json:"userId"`
		Action    string          `json:"action"`
		Detail    json.RawMessage `json:"detail"`
		CreatedAt time.Time       `json:"createdAt"`
	}
)

func taskResp(t *model.Task) TaskResp {
	return TaskResp{
		ID:           t.ID,
		ProjectID:    t.ProjectID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       t.Status,
		Priority:     t.Priority,
		DueDate:      t.DueDate,
		AssigneeID:   t.AssigneeID,
		SprintID:     t.SprintID,
		EpicID:       t.EpicID,
		ParentTaskID: t.ParentTaskID,
	}
}

// resolveTask loads a task and checks project access for the caller.
// Write operations additionally pass edit=true to reject viewers.
func (mgr *TaskMgr) resolveTask(
	c *gin.Context, id uint, edit bool,
) (*model.Task, *access.ProjectResolution, error) {
	task, err := mgr.tasks.GetByID(c, id)
	if err != nil {
		return nil, nil, domain.ErrNotFound
	}
	caller := util.GetToken(c).Identity()
	var res *access.ProjectResolution
	if edit {
		res, err = mgr.resolver.ResolveProjectEditAccess(c, caller, task.ProjectID)
	} else {
		res, err = mgr.resolver.ResolveProjectAccess(c, caller, task.ProjectID)
	}
	if err != nil {
		return nil, nil, err
	}
	return task, res, nil
}

func (mgr *TaskMgr) audit(c *gin.Context, taskID, userID uint, action string, detail any) {
	raw, err := json.Marshal(detail)
	if err != nil {
		raw = []byte("{}")
	}
	entry := &model.AuditLog{TaskID: taskID, UserID: userID, Action: action, Detail: raw}
	if err := mgr.tasks.AddAuditLog(c, entry); err != nil {
		logutils.Log.WithError(err).WithFields(logutils.Fields{"task": taskID, "action": action}).
			Error("write audit log")
	}
}

func (mgr *TaskMgr) notifyAssigned(c *gin.Context, task *model.Task, actorName string) {
	if task.AssigneeID == nil {
		return
	}
	assignee, err := mgr.users.GetByID(c, *task.AssigneeID)
	if err != nil {
		return
	}
	mgr.alerter.TaskAssigned(c, task, assignee, actorName)
}

// ListTasks godoc
//
//	@Summary		List project tasks
//	@Description	Top-level tasks of a project; subtasks hang off their parent
//	@Tags			Task
//	@Produce		json
//	@Security		Bearer
//	@Param			projectId	query		int	true	"project id"
//	@Success		200			{object}	resputil.Response[[]TaskResp]	"tasks"
//	@Router			/v1/tasks [get]
func (mgr *TaskMgr) ListTasks(c *gin.Context) {
	projectID, ok := parseIDQuery(c, "projectId")
	if !ok {
		return
	}
	caller := util.GetToken(c).Identity()
	if _, err := mgr.resolver.ResolveProjectAccess(c, caller, projectID); err != nil {
		resputil.DomainError(c, err, "Project not found")
		return
	}
	tasks, err := mgr.tasks.ListByProject(c, projectID)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, lo.Map(tasks, func(t model.Task, _ int) TaskResp { return taskResp(&t) }))
}

// CreateTask godoc
//
//	@Summary		Create a task
//	@Description	Viewers cannot create; a subtask's parent must be a top-level task of the same project
//	@Tags			Task
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Param			data	body		TaskCreateReq	true	"task data"
//	@Success		200		{object}	resputil.Response[TaskResp]	"created task"
//	@Router			/v1/tasks [post]
func (mgr *TaskMgr) CreateTask(c *gin.Context) {
	var req TaskCreateReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	caller := util.GetToken(c).Identity()
	if _, err := mgr.resolver.ResolveProjectEditAccess(c, caller, req.ProjectID); err != nil {
		resputil.DomainError(c, err, "Cannot create task")
		return
	}
	if req.ParentTaskID != nil {
		parent, err := mgr.tasks.GetByID(c, *req.ParentTaskID)
		if err != nil || parent.ProjectID != req.ProjectID {
			resputil.DomainError(c, domain.ErrNotFound, "Parent task not found")
			return
		}
		if parent.ParentTaskID != nil {
			resputil.BadRequestError(c, "Subtasks cannot be nested")
			return
		}
	}
	if req.AssigneeID != nil {
		assignee, err := mgr.users.GetByID(c, *req.AssigneeID)
		if err != nil || assignee.OrganizationID != caller.OrganizationID {
			resputil.DomainError(c, domain.ErrNotFound, "Assignee not found")
			return
		}
	}
	priority := req.Priority
	if priority == 0 {
		priority = model.PriorityMedium
	}
	task := &model.Task{
		ProjectID:    req.ProjectID,
		Title:        req.Title,
		Description:  req.Description,
		Status:       model.TaskPending,
		Priority:     priority,
		DueDate:      req.DueDate,
		AssigneeID:   req.AssigneeID,
		SprintID:     req.SprintID,
		EpicID:       req.EpicID,
		ParentTaskID: req.ParentTaskID,
	}
	if err := mgr.tasks.Create(c, task); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	mgr.audit(c, task.ID, caller.UserID, "created", gin.H{"title": task.Title})
	mgr.notifyAssigned(c, task, util.GetToken(c).Username)
	resputil.Success(c, taskResp(task))
}

// GetTask godoc
//
//	@Summary	Get a task
//	@Tags		Task
//	@Produce	json
//	@Security	Bearer
//	@Param		id	path		int	true	"task id"
//	@Success	200	{object}	resputil.Response[TaskResp]	"task"
//	@Router		/v1/tasks/{id} [get]
func (mgr *TaskMgr) GetTask(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	task, _, err := mgr.resolveTask(c, id, false)
	if err != nil {
		resputil.DomainError(c, err, "Task not found")
		return
	}
	resputil.Success(c, taskResp(task))
}

// UpdateTask godoc
//
//	@Summary		Update a task
//	@Description	Re-assignment fans out a TASK_ASSIGNED notification
//	@Tags			Task
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Param			id		path		int				true	"task id"
//	@Param			data	body		TaskUpdateReq	true	"fields to change"
//	@Success		200		{object}	resputil.Response[TaskResp]	"updated task"
//	@Router			/v1/tasks/{id} [put]
func (mgr *TaskMgr) UpdateTask(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req TaskUpdateReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	task, _, err := mgr.resolveTask(c, id, true)
	if err != nil {
		resputil.DomainError(c, err, "Cannot edit task")
		return
	}
	caller := util.GetToken(c).Identity()

	reassigned := false
	if req.AssigneeID != nil &&
		(task.AssigneeID == nil || *task.AssigneeID != *req.AssigneeID) {
		assignee, aerr := mgr.users.GetByID(c, *req.AssigneeID)
		if aerr != nil || assignee.OrganizationID != caller.OrganizationID {
			resputil.DomainError(c, domain.ErrNotFound, "Assignee not found")
			return
		}
		task.AssigneeID = req.AssigneeID
		reassigned = true
	}
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.SprintID != nil {
		task.SprintID = req.SprintID
	}
	if req.EpicID != nil {
		task.EpicID = req.EpicID
	}
	if err := mgr.tasks.Update(c, task); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	mgr.audit(c, task.ID, caller.UserID, "updated", gin.H{})
	if reassigned {
		mgr.notifyAssigned(c, task, util.GetToken(c).Username)
	}
	resputil.Success(c, taskResp(task))
}

// UpdateStatus godoc
//
//	@Summary		Change task status
//	@Description	Completing a task notifies its assignee
//	@Tags			Task
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Param			id		path		int				true	"task id"
//	@Param			data	body		TaskStatusReq	true	"new status"
//	@Success		200		{object}	resputil.Response[TaskResp]	"updated task"
//	@Router			/v1/tasks/{id}/status [put]
func (mgr *TaskMgr) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req TaskStatusReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if req.Status > model.TaskCompleted {
		resputil.BadRequestError(c, "Unknown task status")
		return
	}
	task, _, err := mgr.resolveTask(c, id, true)
	if err != nil {
		resputil.DomainError(c, err, "Cannot edit task")
		return
	}
	caller := util.GetToken(c).Identity()
	from := task.Status
	task.Status = req.Status
	if err := mgr.tasks.Update(c, task); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	mgr.audit(c, task.ID, caller.UserID, "status_changed", gin.H{"from": from, "to": req.Status})
	if req.Status == model.TaskCompleted && task.AssigneeID != nil && *task.AssigneeID != caller.UserID {
		if assignee, aerr := mgr.users.GetByID(c, *task.AssigneeID); aerr == nil {
			mgr.alerter.TaskCompleted(c, task, assignee, util.GetToken(c).Username)
		}
	}
	resputil.Success(c, taskResp(task))
}

// DeleteTask godoc
//
//	@Summary		Delete a task
//	@Description	Deletes the task and its subtasks
//	@Tags			Task
//	@Produce		json
//	@Security		Bearer
//	@Param			id	path		int	true	"task id"
//	@Success	200	{object}	resputil.Response[string]	"deleted"
//	@Router		/v1/tasks/{id} [delete]
func (mgr *TaskMgr) DeleteTask(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, _, err := mgr.resolveTask(c, id, true); err != nil {
		resputil.DomainError(c, err, "Cannot delete task")
		return
	}
	if err := mgr.tasks.Delete(c, id); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, "deleted")
}

// ListSubtasks godoc
//
//	@Summary	List subtasks
//	@Tags		Task
//	@Produce	json
//	@Security	Bearer
//	@Param		id	path		int	true	"parent task id"
//	@Success	200	{object}	resputil.Response[[]TaskResp]	"subtasks"
//	@Router		/v1/tasks/{id}/subtasks [get]
func (mgr *TaskMgr) ListSubtasks(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, _, err := mgr.resolveTask(c, id, false); err != nil {
		resputil.DomainError(c, err, "Task not found")
		return
	}
	subtasks, err := mgr.tasks.ListSubtasks(c, id)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, lo.Map(subtasks, func(t model.Task, _ int) TaskResp { return taskResp(&t) }))
}

// ListComments godoc
//
//	@Summary	List task comments
//	@Tags		Task
//	@Produce	json
//	@Security	Bearer
//	@Param		id	path		int	true	"task id"
//	@Success	200	{object}	resputil.Response[[]CommentResp]	"comments"
//	@Router		/v1/tasks/{id}/comments [get]
func (mgr *TaskMgr) ListComments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, _, err := mgr.resolveTask(c, id, false); err != nil {
		resputil.DomainError(c, err, "Task not found")
		return
	}
	comments, err := mgr.tasks.ListComments(c, id)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, lo.Map(comments, func(m model.Comment, _ int) CommentResp {
		return CommentResp{ID: m.ID, UserID: m.UserID, Body: m.Body, CreatedAt: m.CreatedAt}
	}))
}

// AddComment godoc
//
//	@Summary		Comment on a task
//	@Description	Notifies the assignee unless they are the author
//	@Tags			Task
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Param			id		path		int			true	"task id"
//	@Param			data	body		CommentReq	true	"comment body"
//	@Success		200		{object}	resputil.Response[CommentResp]	"created comment"
//	@Router			/v1/tasks/{id}/comments [post]
func (mgr *TaskMgr) AddComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CommentReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	task, _, err := mgr.resolveTask(c, id, true)
	if err != nil {
		resputil.DomainError(c, err, "Cannot comment on task")
		return
	}
	caller := util.GetToken(c).Identity()
	comment := &model.Comment{TaskID: id, UserID: caller.UserID, Body: req.Body}
	if err := mgr.tasks.AddComment(c, comment); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	mgr.audit(c, id, caller.UserID, "commented", gin.H{"comment": comment.ID})
	if task.AssigneeID != nil && *task.AssigneeID != caller.UserID {
		if assignee, aerr := mgr.users.GetByID(c, *task.AssigneeID); aerr == nil {
			mgr.alerter.CommentAdded(c, task, assignee, util.GetToken(c).Username)
		}
	}
	resputil.Success(c, CommentResp{
		ID: comment.ID, UserID: comment.UserID, Body: comment.Body, CreatedAt: comment.CreatedAt,
	})
}

// DeleteComment godoc
//
//	@Summary		Delete a comment
//	@Description	Author or organization admin only
//	@Tags			Task
//	@Produce		json
//	@Security		Bearer
//	@Param			id			path		int	true	"task id"
//	@Param			commentId	path		int	true	"comment id"
//	@Success		200			{object}	resputil.Response[string]	"deleted"
//	@Router			/v1/tasks/{id}/comments/{commentId} [delete]
func (mgr *TaskMgr) DeleteComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "commentId")
	if !ok {
		return
	}
	if _, _, err := mgr.resolveTask(c, id, false); err != nil {
		resputil.DomainError(c, err, "Task not found")
		return
	}
	comment, err := mgr.tasks.GetComment(c, commentID)
	if err != nil || comment.TaskID != id {
		resputil.DomainError(c, domain.ErrNotFound, "Comment not found")
		return
	}
	caller := util.GetToken(c).Identity()
	if comment.UserID != caller.UserID && !access.CanAdminOverride(caller) {
		resputil.DomainError(c, domain.ErrForbidden, "Cannot delete another user's comment")
		return
	}
	if err := mgr.tasks.DeleteComment(c, commentID); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, "deleted")
}

// ListAttachments godoc
//
//	@Summary	List task attachments
//	@Tags		Task
//	@Produce	json
//	@Security	Bearer
//	@Param		id	path		int	true	"task id"
//	@Success	200	{object}	resputil.Response[[]AttachmentResp]	"attachments"
//	@Router		/v1/tasks/{id}/attachments [get]
func (mgr *TaskMgr) ListAttachments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, _, err := mgr.resolveTask(c, id, false); err != nil {
		resputil.DomainError(c, err, "Task not found")
		return
	}
	attachments, err := mgr.tasks.ListAttachments(c, id)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, lo.Map(attachments, func(a model.Attachment, _ int) AttachmentResp {
		return AttachmentResp{
			ID: a.ID, UserID: a.UserID, FileName: a.FileName,
			URL: a.URL, ContentType: a.ContentType, Size: a.Size,
		}
	}))
}

// UploadAttachment godoc
//
//	@Summary		Attach a file to a task
//	@Tags			Task
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		Bearer
//	@Param			id		path		int		true	"task id"
//	@Param			file	formData	file	true	"file to upload"
//	@Success		200		{object}	resputil.Response[AttachmentResp]	"created attachment"
//	@Router			/v1/tasks/{id}/attachments [post]
func (mgr *TaskMgr) UploadAttachment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, _, err := mgr.resolveTask(c, id, true); err != nil {
		resputil.DomainError(c, err, "Cannot attach to task")
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		resputil.BadRequestError(c, "Missing file")
		return
	}
	f, err := header.Open()
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	defer f.Close()

	obj, err := mgr.filestore.Save(c, header.Filename, f)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	caller := util.GetToken(c).Identity()
	attachment := &model.Attachment{
		TaskID:      id,
		UserID:      caller.UserID,
		FileName:    header.Filename,
		FileKey:     obj.Key,
		URL:         obj.URL,
		ContentType: obj.ContentType,
		Size:        obj.Size,
	}
	if err := mgr.tasks.AddAttachment(c, attachment); err != nil {
		// Roll back the stored file so orphans do not pile up.
		if rerr := mgr.filestore.Remove(c, obj.Key); rerr != nil {
			logutils.Log.WithError(rerr).Error("remove orphaned upload")
		}
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	mgr.audit(c, id, caller.UserID, "attachment_added", gin.H{"file": header.Filename})
	resputil.Success(c, AttachmentResp{
		ID: attachment.ID, UserID: attachment.UserID, FileName: attachment.FileName,
		URL: attachment.URL, ContentType: attachment.ContentType, Size: attachment.Size,
	})
}

// DeleteAttachment godoc
//
//	@Summary		Delete an attachment
//	@Description	Uploader or organization admin only
//	@Tags			Task
//	@Produce		json
//	@Security		Bearer
//	@Param			id				path		int	true	"task id"
//	@Param			attachmentId	path		int	true	"attachment id"
//	@Success		200				{object}	resputil.Response[string]	"deleted"
//	@Router			/v1/tasks/{id}/attachments/{attachmentId} [delete]
func (mgr *TaskMgr) DeleteAttachment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	attachmentID, ok := parseIDParam(c, "attachmentId")
	if !ok {
		return
	}
	if _, _, err := mgr.resolveTask(c, id, false); err != nil {
		resputil.DomainError(c, err, "Task not found")
		return
	}
	attachment, err := mgr.tasks.GetAttachment(c, attachmentID)
	if err != nil || attachment.TaskID != id {
		resputil.DomainError(c, domain.ErrNotFound, "Attachment not found")
		return
	}
	caller := util.GetToken(c).Identity()
	if attachment.UserID != caller.UserID && !access.CanAdminOverride(caller) {
		resputil.DomainError(c, domain.ErrForbidden, "Cannot delete another user's attachment")
		return
	}
	if err := mgr.tasks.DeleteAttachment(c, attachmentID); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	if err := mgr.filestore.Remove(c, attachment.FileKey); err != nil {
		logutils.Log.WithError(err).WithFields(logutils.Fields{"key": attachment.FileKey}).
			Error("remove stored file")
	}
	resputil.Success(c, "deleted")
}

// ListHistory godoc
//
//	@Summary	Task audit trail
//	@Tags		Task
//	@Produce	json
//	@Security	Bearer
//	@Param		id	path		int	true	"task id"
//	@Success	200	{object}	resputil.Response[[]AuditLogResp]	"audit entries, newest first"
//	@Router		/v1/tasks/{id}/history [get]
func (mgr *TaskMgr) ListHistory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, _, err := mgr.resolveTask(c, id, false); err != nil {
		resputil.DomainError(c, err, "Task not found")
		return
	}
	entries, err := mgr.tasks.ListAuditLogs(c, id)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, lo.Map(entries, func(e model.AuditLog, _ int) AuditLogResp {
		return AuditLogResp{
			ID: e.ID, UserID: e.UserID, Action: e.Action,
			Detail: json.RawMessage(e.Detail), CreatedAt: e.CreatedAt,
		}
	}))
}
