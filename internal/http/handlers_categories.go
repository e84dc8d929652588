package http

import (
	"net/http"
	"sync/atomic"

	"foodtracker/internal/log"
)

const (
	msgRejectedAdd  = "Name is empty or already exists"
	msgRejectedEdit = "Category not found, name empty or already taken"
)

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	s.renderCategories(w, r, NewHTMXResponse(), "")
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid form data").Write(w)
		return
	}
	name := sanitizeInput(r.PostFormValue("name"))
	group := parseGroup(r.PostFormValue("group"))

	ctx := r.Context()
	logger := log.FromContext(ctx)
	if !s.view.AddCategory(name, group) {
		s.countRejected()
		logger.DebugContext(ctx, "Category add ignored", categoryFields(log.OpAdd, "", name)...)
		s.renderCategories(w, r, NewHTMXResponse(), msgRejectedAdd)
		return
	}
	atomic.AddInt64(&s.appMetrics.categoryAdds, 1)
	logger.InfoContext(ctx, "Category added", categoryFields(log.OpAdd, "", name)...)

	s.categoriesChanged(w, r)
}

func (s *Server) handleEditCategory(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid form data").Write(w)
		return
	}
	id := r.PathValue("id")
	name := sanitizeInput(r.PostFormValue("name"))
	group := parseGroup(r.PostFormValue("group"))

	ctx := r.Context()
	logger := log.FromContext(ctx)
	if !s.view.EditCategory(id, name, group) {
		s.countRejected()
		logger.DebugContext(ctx, "Category edit ignored", categoryFields(log.OpEdit, id, name)...)
		s.renderCategories(w, r, NewHTMXResponse(), msgRejectedEdit)
		return
	}
	atomic.AddInt64(&s.appMetrics.categoryEdits, 1)
	logger.InfoContext(ctx, "Category edited", categoryFields(log.OpEdit, id, name)...)

	s.categoriesChanged(w, r)
}

// handleRemoveCategory deletes a category. Unknown ids are a no-op and simply
// re-render the dialog.
func (s *Server) handleRemoveCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	ctx := r.Context()
	if !s.view.RemoveCategory(id) {
		s.countRejected()
		s.renderCategories(w, r, NewHTMXResponse(), "")
		return
	}
	atomic.AddInt64(&s.appMetrics.categoryRemovals, 1)
	log.FromContext(ctx).InfoContext(ctx, "Category removed", categoryFields(log.OpRemove, id, "")...)

	s.categoriesChanged(w, r)
}

// categoriesChanged re-renders the dialog and tells every day view to
// refresh.
func (s *Server) categoriesChanged(w http.ResponseWriter, r *http.Request) {
	b := NewHTMXResponse().TriggerCategoriesChanged(len(s.view.Categories()))
	s.renderCategories(w, r, b, "")
}

func (s *Server) renderCategories(w http.ResponseWriter, r *http.Request, b *HTMXResponseBuilder, msg string) {
	data := categoriesData{
		Categories: s.view.Categories(),
		Groups:     allGroups,
		Message:    msg,
	}
	s.respond(w, r, b, "categories", data)
}

func categoryFields(op, id, name string) []any {
	f := log.NewFields().WithOperation(op)
	if id != "" {
		f.With(log.FieldCategoryID, id)
	}
	if name != "" {
		f.With(log.FieldCategory, name)
	}
	return f.ToSlice()
}
