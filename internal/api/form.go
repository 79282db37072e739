package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/service"
)

const (
	maxFormMemory = 32 << 20
	maxFormRows   = 100
)

var (
	stepField = regexp.MustCompile(`^steps\[(\d+)\]\[(\w+)\]$`)
	ingrField = regexp.MustCompile(`^ingr\[(\d+)\]\[(\w+)\]$`)
)

var errTooManyRows = fmt.Errorf("a recipe may have at most %d steps or ingredients", maxFormRows)

// recipeForm is the raw content of a recipe create or edit request.
type recipeForm struct {
	values url.Values
	files  map[string][]*multipart.FileHeader
}

func parseRecipeForm(c *gin.Context) (*recipeForm, error) {
	req := c.Request
	if c.ContentType() == "multipart/form-data" {
		if err := req.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, fmt.Errorf("invalid multipart form: %w", err)
		}
	} else if err := req.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form: %w", err)
	}

	f := &recipeForm{values: req.PostForm, files: map[string][]*multipart.FileHeader{}}
	if req.MultipartForm != nil {
		f.files = req.MultipartForm.File
	}
	return f, nil
}

// submission turns the form into the service command. Row indices are kept
// as submitted so error keys line up with the client's inputs.
func (f *recipeForm) submission() (service.RecipeSubmission, error) {
	sub := service.RecipeSubmission{
		TargetStatus: models.RecipeStatus(strings.TrimSpace(f.values.Get("submit_status"))),
		Fields: service.RecipeFields{
			Title:         f.values.Get("title"),
			Description:   f.values.Get("description"),
			Portions:      f.values.Get("portions"),
			Calories:      f.values.Get("calories"),
			EstimatedCost: f.values.Get("estimated_cost"),
			GenreIDs:      append(f.values["genres"], f.values["genres[]"]...),
			CoverImage:    f.upload("cover_image"),
			Video:         f.upload("video_file"),
		},
	}

	stepRows, err := f.rows(stepField)
	if err != nil {
		return sub, err
	}
	sub.Steps = make([]service.StepEntry, len(stepRows))
	for i, row := range stepRows {
		sub.Steps[i] = service.StepEntry{
			Description:   row["description"],
			Image:         f.upload(fmt.Sprintf("steps[%d][image]", i)),
			ExistingImage: strings.TrimSpace(row["existing_image"]),
			Delete:        truthy(row["DELETE"]),
		}
	}

	ingrRows, err := f.rows(ingrField)
	if err != nil {
		return sub, err
	}
	sub.Ingredients = make([]service.IngredientLine, len(ingrRows))
	for i, row := range ingrRows {
		sub.Ingredients[i] = service.IngredientLine{
			Name:     row["ingredient_name"],
			Quantity: row["quantity"],
			Unit:     row["unit"],
			Delete:   truthy(row["DELETE"]),
		}
	}
	return sub, nil
}

// rows groups indexed fields such as steps[2][description] by index. Missing
// indices become empty rows, which the service treats as blank.
func (f *recipeForm) rows(pattern *regexp.Regexp) ([]map[string]string, error) {
	byIndex := map[int]map[string]string{}
	maxIndex := -1
	collect := func(key, value string) error {
		m := pattern.FindStringSubmatch(key)
		if m == nil {
			return nil
		}
		i, err := strconv.Atoi(m[1])
		if err != nil || i >= maxFormRows {
			return errTooManyRows
		}
		if byIndex[i] == nil {
			byIndex[i] = map[string]string{}
		}
		byIndex[i][m[2]] = value
		if i > maxIndex {
			maxIndex = i
		}
		return nil
	}
	for key, vals := range f.values {
		if len(vals) == 0 {
			continue
		}
		if err := collect(key, vals[0]); err != nil {
			return nil, err
		}
	}
	for key := range f.files {
		if err := collect(key, ""); err != nil {
			return nil, err
		}
	}

	out := make([]map[string]string, maxIndex+1)
	for i := range out {
		out[i] = byIndex[i]
		if out[i] == nil {
			out[i] = map[string]string{}
		}
	}
	return out, nil
}

func (f *recipeForm) upload(field string) *service.Upload {
	return toUpload(f.files[field])
}

// echo returns the submitted values, minus files, for re-rendering the form.
func (f *recipeForm) echo() gin.H {
	keys := make([]string, 0, len(f.values))
	for k := range f.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := gin.H{}
	for _, k := range keys {
		vals := f.values[k]
		if len(vals) == 1 && k != "genres" && k != "genres[]" {
			out[k] = vals[0]
		} else {
			out[k] = vals
		}
	}
	return out
}

func toUpload(headers []*multipart.FileHeader) *service.Upload {
	if len(headers) == 0 || headers[0] == nil {
		return nil
	}
	fh := headers[0]
	return &service.Upload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// formUpload reads an optional single file field outside the recipe form.
func formUpload(c *gin.Context, field string) (*service.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, multipart.ErrMessageTooLarge) {
			return nil, err
		}
		return nil, nil
	}
	return toUpload([]*multipart.FileHeader{fh}), nil
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "on", "true", "yes":
		return true
	}
	return false
}
