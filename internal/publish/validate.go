package publish

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/verdantpress/blogapi/internal/models"
)

// formName maps submission struct fields to the multipart field names
// the caller actually sent, so validation errors point at the wire name.
var formName = map[string]string{
	"AuthorEmail":    "author_email",
	"Title":          "title",
	"Description":    "description",
	"Content":        "content",
	"Category":       "category",
	"CustomCategory": "custom_category",
	"Status":         "status",
	"ScheduleDate":   "schedule_date",
}

// validateSubmission checks a create submission and reports every
// violation at once.
func (o *Orchestrator) validateSubmission(sub *models.Submission) error {
	fields := make(map[string]string)

	if err := o.validate.Struct(sub); err != nil {
		var verrs validator.ValidationErrors
		if ok := asValidationErrors(err, &verrs); ok {
			for _, fe := range verrs {
				name := formName[fe.Field()]
				if name == "" {
					name = strings.ToLower(fe.Field())
				}
				fields[name] = fe.Tag()
			}
		} else {
			return err
		}
	}

	checkBlankFields(sub, fields)
	checkCategory(sub, fields)

	if sub.Status != "" && !models.IsValidStatus(sub.Status) {
		fields["status"] = "must be draft, scheduled, or published"
	}
	if !sub.HasImage() {
		fields["image"] = "required"
	}
	if len(sub.ImageData) > 0 && sub.ImageURL != "" {
		fields["image"] = "provide either an upload or a source URL, not both"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// validateUpdate checks a partial edit: absent fields stay untouched,
// but fields that are present must still be coherent.
func (o *Orchestrator) validateUpdate(sub *models.Submission) error {
	fields := make(map[string]string)

	checkBlankFields(sub, fields)
	checkCategory(sub, fields)

	if sub.Status != "" && !models.IsValidStatus(sub.Status) {
		fields["status"] = "must be draft, scheduled, or published"
	}
	if len(sub.ImageData) > 0 && sub.ImageURL != "" {
		fields["image"] = "provide either an upload or a source URL, not both"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// checkBlankFields catches text fields that survive the `required` tag
// on whitespace alone. The store only ever sees trimmed values, so a
// blank field has to be rejected here, before the image upload runs.
func checkBlankFields(sub *models.Submission, fields map[string]string) {
	for name, value := range map[string]string{
		"title":       sub.Title,
		"description": sub.Description,
		"content":     sub.Content,
		"category":    sub.Category,
	} {
		if value != "" && strings.TrimSpace(value) == "" {
			fields[name] = "required"
		}
	}
}

// checkCategory enforces the "Other" escape hatch: the sentinel needs an
// accompanying free-text category.
func checkCategory(sub *models.Submission, fields map[string]string) {
	if sub.Category == models.CategoryOther && strings.TrimSpace(sub.CustomCategory) == "" {
		fields["custom_category"] = "required when category is Other"
	}
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return false
	}
	*target = verrs
	return true
}
