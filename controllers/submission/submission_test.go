package submissionController

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"abhyasi/config"
	"abhyasi/database"
	"abhyasi/models"
	courseModels "abhyasi/models/course"
	"abhyasi/services/certificate"
	"abhyasi/services/execution"
	submissionValidator "abhyasi/validators/submission"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// echoGateway passes a testcase when the submitted code equals "pass".
type echoGateway struct{}

func (echoGateway) Supports(string) bool { return true }

func (echoGateway) Execute(_ context.Context, _, code, input string, _ int) execution.Result {
	if code == "pass" {
		switch input {
		case "1 2":
			return execution.Result{Output: "3"}
		case "5 5":
			return execution.Result{Output: "10"}
		}
	}
	return execution.Result{Output: "wrong"}
}

// recordingIssuer records issued certificates without touching the network.
type recordingIssuer struct {
	requests chan certificate.Request
}

func (r *recordingIssuer) Issue(_ context.Context, req certificate.Request) (certificate.Issued, error) {
	r.requests <- req
	return certificate.Issued{
		PdfURL:   "https://cdn.example.com/cert.pdf",
		ImageURL: "https://cdn.example.com/cert.png",
		Number:   certificate.CertificateID(req.UserID, req.EntityID, req.CompletedAt),
	}, nil
}

var testSeq int

func setupTest(t *testing.T) *fiber.App {
	t.Helper()

	config.LoadConfig()

	testSeq++
	dsn := fmt.Sprintf("file:subtest%d?mode=memory&cache=shared", testSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	ExecGateway = echoGateway{}
	CertIssuer = nil

	app := fiber.New()
	authStub := func(userID uint) fiber.Handler {
		return func(c *fiber.Ctx) error {
			c.Locals("userId", userID)
			return c.Next()
		}
	}
	app.Post("/module/:moduleId/mcq/submit", authStub(1), submissionValidator.SubmitMCQ(), SubmitMCQAnswer)
	app.Post("/module/:moduleId/code/submit", authStub(1), submissionValidator.SubmitCode(), SubmitCode)
	return app
}

// seedCourse creates one user enrolled in a two-module course. Each module
// has a single MCQ (correct option 1) and a coding task with two testcases.
func seedCourse(t *testing.T) (models.User, []courseModels.Module) {
	t.Helper()
	db := database.Database.Db

	crs := courseModels.Course{Title: "Go Basics", Slug: "go-basics", Description: "d", Status: courseModels.StatusPublished}
	require.NoError(t, db.Create(&crs).Error)

	modules := make([]courseModels.Module, 0, 2)
	for i := 1; i <= 2; i++ {
		mod := courseModels.Module{
			CourseID:          crs.ID,
			Title:             fmt.Sprintf("Module %d", i),
			OrderIndex:        i,
			IsLocked:          i > 1,
			McqPassingPercent: 70,
			MCQs: []courseModels.MCQ{
				{Question: "Q", Options: []byte(`["a","b"]`), CorrectOptionIndex: 1, MaxAttempts: 3, OrderIndex: 1},
			},
			CodingTask: &courseModels.CodingTask{
				Title:          "Sum",
				TimeoutSeconds: 5,
				Testcases: []courseModels.Testcase{
					{Label: "tc-1", Input: "1 2", ExpectedOutput: "3", OrderIndex: 1},
					{Label: "tc-2", Input: "5 5", ExpectedOutput: "10", Hidden: true, OrderIndex: 2},
				},
			},
		}
		require.NoError(t, db.Create(&mod).Error)
		modules = append(modules, mod)
	}

	user := models.User{Name: "Asha", Username: "asha", Email: "asha@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Model(&user).Updates(map[string]interface{}{
		"current_course_id": crs.ID,
		"current_module_id": modules[0].ID,
	}).Error)
	require.NoError(t, db.First(&user, user.ID).Error)
	return user, modules
}

func doJSON(t *testing.T, app *fiber.App, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(respBody, &envelope))
	return resp.StatusCode, envelope
}

func submitMCQ(t *testing.T, app *fiber.App, moduleID uint, answers []int) (int, map[string]interface{}) {
	return doJSON(t, app, fmt.Sprintf("/module/%d/mcq/submit", moduleID), fiber.Map{"answers": answers})
}

func submitCode(t *testing.T, app *fiber.App, moduleID uint, code string) (int, map[string]interface{}) {
	return doJSON(t, app, fmt.Sprintf("/module/%d/code/submit", moduleID), fiber.Map{"code": code, "language": "python"})
}

func TestDualPassAdvancesToNextModule(t *testing.T) {
	app := setupTest(t)
	user, modules := seedCourse(t)

	status, env := submitMCQ(t, app, modules[0].ID, []int{1})
	require.Equal(t, http.StatusOK, status)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, true, data["passed"])
	assert.Equal(t, false, data["isModuleCompleted"])

	status, env = submitCode(t, app, modules[0].ID, "pass")
	require.Equal(t, http.StatusOK, status)
	data = env["data"].(map[string]interface{})
	assert.Equal(t, true, data["passed"])
	assert.Equal(t, true, data["isModuleCompleted"])
	assert.Equal(t, false, data["isCourseCompleted"])
	assert.Equal(t, float64(modules[1].ID), data["nextModuleId"])

	var reloaded models.User
	require.NoError(t, database.Database.Db.First(&reloaded, user.ID).Error)
	require.NotNil(t, reloaded.CurrentModuleID)
	assert.Equal(t, modules[1].ID, *reloaded.CurrentModuleID)
	// 10 for the MCQ pass, 15 for the code pass
	assert.Equal(t, 25, reloaded.Points)
}

func TestMcqFailureDoesNotAdvance(t *testing.T) {
	app := setupTest(t)
	user, modules := seedCourse(t)

	status, env := submitMCQ(t, app, modules[0].ID, []int{0})
	require.Equal(t, http.StatusOK, status)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, false, data["passed"])
	assert.Equal(t, float64(1), data["attemptNumber"])

	var reloaded models.User
	require.NoError(t, database.Database.Db.First(&reloaded, user.ID).Error)
	require.NotNil(t, reloaded.CurrentModuleID)
	assert.Equal(t, modules[0].ID, *reloaded.CurrentModuleID)
	assert.Equal(t, 0, reloaded.Points)
}

func TestMcqMaxAttemptsThenCooldown(t *testing.T) {
	app := setupTest(t)
	_, modules := seedCourse(t)

	for i := 1; i <= 3; i++ {
		status, env := submitMCQ(t, app, modules[0].ID, []int{0})
		require.Equal(t, http.StatusOK, status)
		data := env["data"].(map[string]interface{})
		assert.Equal(t, float64(i), data["attemptNumber"])
	}

	status, env := submitMCQ(t, app, modules[0].ID, []int{0})
	assert.Equal(t, http.StatusForbidden, status)
	data := env["data"].(map[string]interface{})
	assert.NotNil(t, data["cooldownUntil"])

	// The stamped cooldown now gates further submissions
	status, _ = submitMCQ(t, app, modules[0].ID, []int{1})
	assert.Equal(t, http.StatusTooManyRequests, status)
}

func TestMcqResubmitAfterPassRejected(t *testing.T) {
	app := setupTest(t)
	_, modules := seedCourse(t)

	status, _ := submitMCQ(t, app, modules[0].ID, []int{1})
	require.Equal(t, http.StatusOK, status)

	status, _ = submitMCQ(t, app, modules[0].ID, []int{1})
	assert.Equal(t, http.StatusConflict, status)
}

func TestHiddenTestcaseFailureIsRedacted(t *testing.T) {
	app := setupTest(t)
	_, modules := seedCourse(t)

	status, env := submitCode(t, app, modules[0].ID, "broken")
	require.Equal(t, http.StatusOK, status)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, false, data["passed"])

	results := data["testResults"].([]interface{})
	require.Len(t, results, 2)
	hidden := results[1].(map[string]interface{})
	assert.Equal(t, true, hidden["hidden"])
	assert.Equal(t, false, hidden["passed"])
	assert.Nil(t, hidden["input"])
	assert.Nil(t, hidden["expectedOutput"])
	assert.Nil(t, hidden["output"])
}

func TestLastModuleDualPassCompletesCourse(t *testing.T) {
	app := setupTest(t)
	user, modules := seedCourse(t)

	issuer := &recordingIssuer{requests: make(chan certificate.Request, 1)}
	CertIssuer = issuer

	// Work through module 1
	status, _ := submitMCQ(t, app, modules[0].ID, []int{1})
	require.Equal(t, http.StatusOK, status)
	status, _ = submitCode(t, app, modules[0].ID, "pass")
	require.Equal(t, http.StatusOK, status)

	// Module 2 finishes the course
	status, _ = submitMCQ(t, app, modules[1].ID, []int{1})
	require.Equal(t, http.StatusOK, status)
	status, env := submitCode(t, app, modules[1].ID, "pass")
	require.Equal(t, http.StatusOK, status)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, true, data["isCourseCompleted"])
	assert.Equal(t, false, data["isProfessionCompleted"])
	assert.Nil(t, data["nextModuleId"])

	var reloaded models.User
	require.NoError(t, database.Database.Db.First(&reloaded, user.ID).Error)
	assert.Nil(t, reloaded.CurrentCourseID)
	assert.Nil(t, reloaded.CurrentModuleID)
	// 2 modules of dual passes plus the course completion bonus
	assert.Equal(t, 2*10+2*15+100, reloaded.Points)

	var done models.CompletedCourse
	require.NoError(t, database.Database.Db.
		Where("user_id = ? AND course_id = ?", user.ID, modules[0].CourseID).
		First(&done).Error)

	select {
	case req := <-issuer.requests:
		assert.Equal(t, user.ID, req.UserID)
		assert.Equal(t, "course", req.Scope)
		assert.Equal(t, modules[0].CourseID, req.EntityID)
	case <-time.After(3 * time.Second):
		t.Fatal("certificate was never requested")
	}
}

func TestCodeSubmissionUnlimitedAttempts(t *testing.T) {
	app := setupTest(t)
	_, modules := seedCourse(t)

	for i := 1; i <= 3; i++ {
		status, _ := submitCode(t, app, modules[0].ID, "broken")
		require.Equal(t, http.StatusOK, status)
	}

	// The 4th failure earns a cooldown but is still accepted
	status, env := submitCode(t, app, modules[0].ID, "broken")
	require.Equal(t, http.StatusOK, status)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, float64(4), data["attemptNumber"])
	assert.NotNil(t, data["cooldownUntil"])

	status, _ = submitCode(t, app, modules[0].ID, "pass")
	assert.Equal(t, http.StatusTooManyRequests, status)
}

// seedProfession creates a published profession of two single-module
// courses and a user enrolled at the first module of the first course.
func seedProfession(t *testing.T) (models.User, courseModels.Profession, []courseModels.Module) {
	t.Helper()
	db := database.Database.Db

	prof := courseModels.Profession{Name: "Backend Developer", Description: "d", IsPublished: true}
	require.NoError(t, db.Create(&prof).Error)

	modules := make([]courseModels.Module, 0, 2)
	for i := 1; i <= 2; i++ {
		crs := courseModels.Course{
			Title:       fmt.Sprintf("Course %d", i),
			Slug:        fmt.Sprintf("course-%d", i),
			Description: "d",
			Status:      courseModels.StatusPublished,
		}
		require.NoError(t, db.Create(&crs).Error)
		require.NoError(t, db.Create(&courseModels.ProfessionCourse{
			ProfessionID: prof.ID,
			CourseID:     crs.ID,
			OrderIndex:   i,
		}).Error)

		mod := courseModels.Module{
			CourseID:          crs.ID,
			Title:             fmt.Sprintf("Module %d", i),
			OrderIndex:        1,
			McqPassingPercent: 70,
			MCQs: []courseModels.MCQ{
				{Question: "Q", Options: []byte(`["a","b"]`), CorrectOptionIndex: 1, MaxAttempts: 3, OrderIndex: 1},
			},
			CodingTask: &courseModels.CodingTask{
				Title:          "Sum",
				TimeoutSeconds: 5,
				Testcases: []courseModels.Testcase{
					{Label: "tc-1", Input: "1 2", ExpectedOutput: "3", OrderIndex: 1},
					{Label: "tc-2", Input: "5 5", ExpectedOutput: "10", Hidden: true, OrderIndex: 2},
				},
			},
		}
		require.NoError(t, db.Create(&mod).Error)
		modules = append(modules, mod)
	}

	user := models.User{Name: "Asha", Username: "asha", Email: "asha@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Model(&user).Updates(map[string]interface{}{
		"current_profession_id": prof.ID,
		"current_course_id":     modules[0].CourseID,
		"current_module_id":     modules[0].ID,
	}).Error)
	require.NoError(t, db.First(&user, user.ID).Error)
	return user, prof, modules
}

func TestProfessionCompletionCascade(t *testing.T) {
	app := setupTest(t)
	user, prof, modules := seedProfession(t)

	issuer := &recordingIssuer{requests: make(chan certificate.Request, 3)}
	CertIssuer = issuer

	// Finishing course 1 hops to the first module of course 2
	status, _ := submitMCQ(t, app, modules[0].ID, []int{1})
	require.Equal(t, http.StatusOK, status)
	status, env := submitCode(t, app, modules[0].ID, "pass")
	require.Equal(t, http.StatusOK, status)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, true, data["isCourseCompleted"])
	assert.Equal(t, false, data["isProfessionCompleted"])
	assert.Equal(t, float64(modules[1].ID), data["nextModuleId"])

	var hopped models.User
	require.NoError(t, database.Database.Db.First(&hopped, user.ID).Error)
	require.NotNil(t, hopped.CurrentCourseID)
	assert.Equal(t, modules[1].CourseID, *hopped.CurrentCourseID)
	require.NotNil(t, hopped.CurrentProfessionID)

	// Finishing course 2 completes the whole profession
	status, _ = submitMCQ(t, app, modules[1].ID, []int{1})
	require.Equal(t, http.StatusOK, status)
	status, env = submitCode(t, app, modules[1].ID, "pass")
	require.Equal(t, http.StatusOK, status)
	data = env["data"].(map[string]interface{})
	assert.Equal(t, true, data["isCourseCompleted"])
	assert.Equal(t, true, data["isProfessionCompleted"])
	assert.Nil(t, data["nextModuleId"])

	var reloaded models.User
	require.NoError(t, database.Database.Db.First(&reloaded, user.ID).Error)
	assert.Nil(t, reloaded.CurrentProfessionID)
	assert.Nil(t, reloaded.CurrentCourseID)
	assert.Nil(t, reloaded.CurrentModuleID)
	// 2 dual passes, 2 course bonuses and the profession bonus
	assert.Equal(t, 2*(10+15)+2*100+300, reloaded.Points)

	var doneProf models.CompletedProfession
	require.NoError(t, database.Database.Db.
		Where("user_id = ? AND profession_id = ?", user.ID, prof.ID).
		First(&doneProf).Error)
	var doneCourses int64
	require.NoError(t, database.Database.Db.Model(&models.CompletedCourse{}).
		Where("user_id = ?", user.ID).Count(&doneCourses).Error)
	assert.Equal(t, int64(2), doneCourses)

	scopes := map[string]int{}
	for i := 0; i < 3; i++ {
		select {
		case req := <-issuer.requests:
			scopes[req.Scope]++
		case <-time.After(3 * time.Second):
			t.Fatal("expected three certificate requests")
		}
	}
	assert.Equal(t, 2, scopes["course"])
	assert.Equal(t, 1, scopes["profession"])
}

func TestLockedModuleRejectsSubmission(t *testing.T) {
	app := setupTest(t)
	_, modules := seedCourse(t)

	require.True(t, modules[1].IsLocked)
	status, _ := submitMCQ(t, app, modules[1].ID, []int{1})
	assert.Equal(t, http.StatusForbidden, status)
}
