package submissionController

import (
	"context"
	"log"
	"time"

	"abhyasi/constants"
	"abhyasi/database"
	"abhyasi/models"
	courseModels "abhyasi/models/course"
	"abhyasi/services/certificate"
	"abhyasi/services/execution"
	"abhyasi/services/progression"
	"abhyasi/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Wired in main.go; overridable in tests
var (
	ExecGateway execution.Gateway
	CertIssuer  certificate.Issuer
)

// completionFlags reports how far a dual-pass cascaded
type completionFlags struct {
	ModuleCompleted     bool  `json:"isModuleCompleted"`
	CourseCompleted     bool  `json:"isCourseCompleted"`
	ProfessionCompleted bool  `json:"isProfessionCompleted"`
	NextCourseID        *uint `json:"nextCourseId,omitempty"`
	NextModuleID        *uint `json:"nextModuleId,omitempty"`
}

// certJob is a deferred certificate issuance, executed after the
// progression transaction commits so a slow issuer never blocks it
type certJob struct {
	UserID      uint
	UserName    string
	UserEmail   string
	Scope       string
	EntityID    uint
	EntityTitle string
	CompletedAt time.Time
}

// advanceUser runs the progression engine for a dual-passed module and
// applies the resulting transition inside tx. Certificate issuance is
// returned as jobs for the caller to run after commit.
func advanceUser(tx *gorm.DB, user *models.User, module courseModels.Module, now time.Time) (completionFlags, []certJob, error) {
	flags := completionFlags{ModuleCompleted: true}

	snap, titles, err := buildSnapshot(tx, user, module)
	if err != nil {
		return flags, nil, err
	}

	t, err := progression.Advance(snap)
	if err != nil {
		return flags, nil, err
	}

	pointers := map[string]interface{}{
		"current_course_id": nullableID(t.NextCourseID),
		"current_module_id": nullableID(t.NextModuleID),
	}
	if t.Kind == progression.ProfessionCompleted {
		pointers["current_profession_id"] = nil
	}
	if err := tx.Model(user).Updates(pointers).Error; err != nil {
		return flags, nil, err
	}

	var jobs []certJob
	for _, ev := range t.Events {
		switch ev.Type {
		case progression.EventCompletionRecorded:
			if err := recordCompletion(tx, user.ID, ev.Scope, ev.EntityID, now); err != nil {
				return flags, nil, err
			}
		case progression.EventCertificateRequested:
			jobs = append(jobs, certJob{
				UserID:      user.ID,
				UserName:    user.Name,
				UserEmail:   user.Email,
				Scope:       ev.Scope,
				EntityID:    ev.EntityID,
				EntityTitle: titles[ev.Scope],
				CompletedAt: now,
			})
		}
	}

	switch t.Kind {
	case progression.ModuleAdvanced:
		flags.NextCourseID = nullableID(t.NextCourseID)
		flags.NextModuleID = nullableID(t.NextModuleID)
	case progression.CourseCompleted:
		flags.CourseCompleted = true
		flags.NextCourseID = nullableID(t.NextCourseID)
		flags.NextModuleID = nullableID(t.NextModuleID)
	case progression.ProfessionCompleted:
		flags.CourseCompleted = true
		flags.ProfessionCompleted = true
	}
	return flags, jobs, nil
}

// buildSnapshot assembles the engine's view of the user's position. The
// returned titles map feeds certificate jobs, keyed by scope.
func buildSnapshot(tx *gorm.DB, user *models.User, module courseModels.Module) (progression.Snapshot, map[string]string, error) {
	snap := progression.Snapshot{
		CourseID:            module.CourseID,
		ModuleID:            module.ID,
		CompletedCourseIDs:  map[uint]bool{},
		FirstModuleByCourse: map[uint]uint{},
	}
	titles := map[string]string{}

	var courseRow courseModels.Course
	if err := tx.Select("id", "title").First(&courseRow, module.CourseID).Error; err != nil {
		return snap, nil, err
	}
	titles[progression.ScopeCourse] = courseRow.Title

	var mods []courseModels.Module
	if err := tx.Select("id", "order_index").
		Where("course_id = ? AND is_deleted = ?", module.CourseID, false).
		Order("order_index asc").Find(&mods).Error; err != nil {
		return snap, nil, err
	}
	for _, m := range mods {
		snap.Modules = append(snap.Modules, progression.ModuleRef{ID: m.ID, Order: m.OrderIndex})
	}

	var done []models.CompletedCourse
	if err := tx.Select("course_id").Where("user_id = ?", user.ID).Find(&done).Error; err != nil {
		return snap, nil, err
	}
	for _, d := range done {
		snap.CompletedCourseIDs[d.CourseID] = true
	}

	if user.CurrentProfessionID == nil {
		return snap, titles, nil
	}
	snap.ProfessionID = *user.CurrentProfessionID

	var prof courseModels.Profession
	if err := tx.Select("id", "name").First(&prof, snap.ProfessionID).Error; err != nil {
		return snap, nil, err
	}
	titles[progression.ScopeProfession] = prof.Name

	var entries []courseModels.ProfessionCourse
	if err := tx.Where("profession_id = ?", snap.ProfessionID).
		Order("order_index asc").Find(&entries).Error; err != nil {
		return snap, nil, err
	}
	courseIDs := make([]uint, 0, len(entries))
	for _, e := range entries {
		snap.ProfessionCourses = append(snap.ProfessionCourses, progression.CourseRef{ID: e.CourseID, Order: e.OrderIndex})
		courseIDs = append(courseIDs, e.CourseID)
	}

	if len(courseIDs) > 0 {
		var firstModules []courseModels.Module
		if err := tx.Select("id", "course_id", "order_index").
			Where("course_id IN ? AND is_deleted = ?", courseIDs, false).
			Order("course_id asc, order_index asc").Find(&firstModules).Error; err != nil {
			return snap, nil, err
		}
		for _, m := range firstModules {
			if _, seen := snap.FirstModuleByCourse[m.CourseID]; !seen {
				snap.FirstModuleByCourse[m.CourseID] = m.ID
			}
		}
	}

	return snap, titles, nil
}

// recordCompletion appends a completion record and awards its bonus points.
// OnConflict DoNothing keeps completion idempotent when the MCQ and code
// passes race each other.
func recordCompletion(tx *gorm.DB, userID uint, scope string, entityID uint, now time.Time) error {
	var created bool
	switch scope {
	case progression.ScopeCourse:
		rec := models.CompletedCourse{
			UserID:        userID,
			CourseID:      entityID,
			CompletedDate: now,
			Points:        constants.CourseCompletionPoints,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rec)
		if res.Error != nil {
			return res.Error
		}
		created = res.RowsAffected > 0
		if created {
			return addPoints(tx, userID, constants.CourseCompletionPoints)
		}
	case progression.ScopeProfession:
		rec := models.CompletedProfession{
			UserID:        userID,
			ProfessionID:  entityID,
			CompletedDate: now,
			Points:        constants.ProfessionCompletionPoints,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rec)
		if res.Error != nil {
			return res.Error
		}
		created = res.RowsAffected > 0
		if created {
			return addPoints(tx, userID, constants.ProfessionCompletionPoints)
		}
	}
	return nil
}

func addPoints(tx *gorm.DB, userID uint, points int) error {
	return tx.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("points", gorm.Expr("points + ?", points)).Error
}

// runCertJobs issues certificates after the progression write committed.
// Issuer failures are logged and never surfaced to the learner.
func runCertJobs(jobs []certJob) {
	for _, job := range jobs {
		if job.UserEmail != "" {
			switch job.Scope {
			case progression.ScopeCourse:
				utils.SendCourseCompletionEmail(job.UserEmail, job.UserName, job.EntityTitle)
			case progression.ScopeProfession:
				utils.SendProfessionCompletionEmail(job.UserEmail, job.UserName, job.EntityTitle)
			}
		}
		go issueCertificate(job)
	}
}

func issueCertificate(job certJob) {
	if CertIssuer == nil {
		log.Printf("Certificate issuer not configured, skipping %s %d for user %d", job.Scope, job.EntityID, job.UserID)
		return
	}

	issued, err := CertIssuer.Issue(context.Background(), certificate.Request{
		UserID:      job.UserID,
		UserName:    job.UserName,
		Scope:       job.Scope,
		EntityID:    job.EntityID,
		EntityTitle: job.EntityTitle,
		CompletedAt: job.CompletedAt,
	})
	if err != nil {
		log.Printf("Certificate issuance failed for user %d %s %d: %v", job.UserID, job.Scope, job.EntityID, err)
		return
	}

	db := database.Database.Db
	cert := courseModels.Certificate{
		UserID:            job.UserID,
		Scope:             job.Scope,
		EntityID:          job.EntityID,
		CertificateNumber: issued.Number,
		PdfURL:            issued.PdfURL,
		ImageURL:          issued.ImageURL,
		IssuedAt:          time.Now(),
	}
	if err := db.Create(&cert).Error; err != nil {
		log.Printf("Error saving certificate record: %v", err)
	}

	certFields := map[string]interface{}{
		"certificate":           true,
		"certificate_url":       issued.PdfURL,
		"certificate_pdf_url":   issued.PdfURL,
		"certificate_image_url": issued.ImageURL,
	}
	switch job.Scope {
	case progression.ScopeCourse:
		if err := db.Model(&models.CompletedCourse{}).
			Where("user_id = ? AND course_id = ?", job.UserID, job.EntityID).
			Updates(certFields).Error; err != nil {
			log.Printf("Error updating course completion record: %v", err)
		}
	case progression.ScopeProfession:
		if err := db.Model(&models.CompletedProfession{}).
			Where("user_id = ? AND profession_id = ?", job.UserID, job.EntityID).
			Updates(certFields).Error; err != nil {
			log.Printf("Error updating profession completion record: %v", err)
		}
	}

	if job.UserEmail != "" {
		utils.SendCertificateEmail(job.UserEmail, job.UserName, job.EntityTitle, issued.PdfURL)
	}
}

func nullableID(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}
