package test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/program-ledger/console/internal/models"
	"github.com/program-ledger/console/internal/types"
)

// Recorded is a request the fake backend received.
type Recorded struct {
	Method    string
	Path      string
	Query     string
	RequestID string
	Body      []byte
}

// Decode unmarshals the recorded body into target.
func (r Recorded) Decode(t *testing.T, target any) {
	if err := json.Unmarshal(r.Body, target); err != nil {
		t.Fatalf("decoding recorded body %q: %v", r.Body, err)
	}
}

type failure struct {
	status int
	detail any
}

// Backend is an in-memory implementation of the ledger backend's REST API.
//
// Collections keep insertion order, list endpoints return them in that
// order. Like the real backend, only programs can be read by ID and the
// program_id filter on categories is ignored.
type Backend struct {
	Server *httptest.Server

	mu            sync.Mutex
	nextID        types.ID
	programs      []models.Program
	categories    []models.WbsCategory
	subcategories []models.WbsSubcategory
	transactions  []models.LedgerTransaction
	history       []models.EditHistoryEntry
	summaries     map[types.ID]models.DashboardSummary
	failures      map[string]failure
	requests      []Recorded
}

// NewBackend starts a fake backend that is shut down when the test ends.
func NewBackend(t *testing.T) *Backend {
	b := &Backend{
		nextID:    1,
		summaries: make(map[types.ID]models.DashboardSummary),
		failures:  make(map[string]failure),
	}

	r := gin.New()
	r.Use(b.record, b.inject)

	b.routes(r)

	b.Server = httptest.NewServer(r)
	t.Cleanup(b.Server.Close)

	return b
}

// URL returns the base URL of the fake backend.
func (b *Backend) URL() string {
	return b.Server.URL
}

// Fail makes every request for method and path answer with status.
// detail is sent as the "detail" of the error body.
func (b *Backend) Fail(method, path string, status int, detail any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = failure{status: status, detail: detail}
}

// Heal removes all injected failures.
func (b *Backend) Heal() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = make(map[string]failure)
}

// Requests returns the requests received so far.
func (b *Backend) Requests() []Recorded {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Recorded(nil), b.requests...)
}

// Mutations returns the received requests that are not reads.
func (b *Backend) Mutations() []Recorded {
	mutations := make([]Recorded, 0)
	for _, r := range b.Requests() {
		if r.Method != http.MethodGet {
			mutations = append(mutations, r)
		}
	}
	return mutations
}

// Reset forgets the recorded requests.
func (b *Backend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = nil
}

func (b *Backend) id() types.ID {
	id := b.nextID
	b.nextID++
	return id
}

// AddProgram stores a program. An empty program code is replaced with a
// random one.
func (b *Backend) AddProgram(p models.ProgramEditable) models.Program {
	b.mu.Lock()
	defer b.mu.Unlock()

	if p.ProgramCode == "" {
		p.ProgramCode = "PRG-" + strings.ToUpper(uuid.NewString()[:8])
	}
	if p.ProgramManager == "" {
		p.ProgramManager = "Test Manager"
	}
	if p.ProgramStatus == "" {
		p.ProgramStatus = models.ProgramStatusActive
	}

	now := types.Timestamp(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	program := models.Program{Model: models.Model{ID: b.id()}, ProgramEditable: p, CreatedAt: &now, LastEditedAt: &now}
	b.programs = append(b.programs, program)
	return program
}

func (b *Backend) AddCategory(programID types.ID, name string) models.WbsCategory {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := models.WbsCategory{Model: models.Model{ID: b.id()}, WbsCategoryEditable: models.WbsCategoryEditable{ProgramID: programID, CategoryName: name}}
	b.categories = append(b.categories, c)
	return c
}

func (b *Backend) AddSubcategory(categoryID types.ID, name string) models.WbsSubcategory {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := models.WbsSubcategory{Model: models.Model{ID: b.id()}, WbsSubcategoryEditable: models.WbsSubcategoryEditable{CategoryID: categoryID, SubcategoryName: name}}
	b.subcategories = append(b.subcategories, s)
	return s
}

func (b *Backend) AddTransaction(t models.LedgerTransactionEditable) models.LedgerTransaction {
	b.mu.Lock()
	defer b.mu.Unlock()

	if t.VendorName == "" {
		t.VendorName = "Vendor " + uuid.NewString()[:6]
	}
	if t.ExpenseDescription == "" {
		t.ExpenseDescription = "Expense"
	}

	transaction := models.LedgerTransaction{Model: models.Model{ID: b.id()}, LedgerTransactionEditable: t}
	b.transactions = append(b.transactions, transaction)
	return transaction
}

// AddHistory appends n audit log entries. Entries are returned newest first.
func (b *Backend) AddHistory(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		old, changed := strconv.Itoa(i), strconv.Itoa(i+1)
		entry := models.EditHistoryEntry{
			Model:        models.Model{ID: b.id()},
			EditedBy:     "system",
			EditedAt:     types.Timestamp(start.Add(time.Duration(len(b.history)) * time.Minute)),
			FieldChanged: "planned_amount",
			OldValue:     &old,
			NewValue:     &changed,
			RecordID:     types.ID(i + 1),
			TableName:    "ledger_transactions",
		}
		if i%10 == 0 {
			entry.OldValue = nil
		}
		b.history = append([]models.EditHistoryEntry{entry}, b.history...)
	}
}

// SetSummary sets the dashboard summary returned for its program.
func (b *Backend) SetSummary(s models.DashboardSummary) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.summaries[s.ProgramID] = s
}

// Transactions returns the stored transactions.
func (b *Backend) Transactions() []models.LedgerTransaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.LedgerTransaction(nil), b.transactions...)
}

func (b *Backend) Programs() []models.Program {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Program(nil), b.programs...)
}

func (b *Backend) Categories() []models.WbsCategory {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.WbsCategory(nil), b.categories...)
}

func (b *Backend) Subcategories() []models.WbsSubcategory {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.WbsSubcategory(nil), b.subcategories...)
}

func (b *Backend) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	b.mu.Lock()
	b.requests = append(b.requests, Recorded{
		Method:    c.Request.Method,
		Path:      c.Request.URL.Path,
		Query:     c.Request.URL.RawQuery,
		RequestID: c.GetHeader("X-Request-ID"),
		Body:      body,
	})
	b.mu.Unlock()

	c.Next()
}

func (b *Backend) inject(c *gin.Context) {
	b.mu.Lock()
	f, ok := b.failures[c.Request.Method+" "+c.Request.URL.Path]
	b.mu.Unlock()

	if ok {
		c.AbortWithStatusJSON(f.status, gin.H{"detail": f.detail})
		return
	}
	c.Next()
}

func (b *Backend) routes(r *gin.Engine) {
	programs := resource[models.Program, models.ProgramEditable]{
		b:    b,
		name: "Program",
		list: func() *[]models.Program { return &b.programs },
		id:   func(p models.Program) types.ID { return p.ID },
		build: func(id types.ID, e models.ProgramEditable, old *models.Program) models.Program {
			p := models.Program{Model: models.Model{ID: id}, ProgramEditable: e}
			if old != nil {
				p.ProgramBudget, p.EAC, p.PercentSpent, p.CreatedAt = old.ProgramBudget, old.EAC, old.PercentSpent, old.CreatedAt
			}
			return p
		},
		validate: func(e models.ProgramEditable) []string {
			return missing(map[string]string{
				"program_name":    e.ProgramName,
				"program_code":    e.ProgramCode,
				"program_manager": e.ProgramManager,
			})
		},
	}
	programs.register(r, "/programs/")
	r.GET("/programs/:id", programs.get)

	categories := resource[models.WbsCategory, models.WbsCategoryEditable]{
		b:    b,
		name: "WBS Category",
		list: func() *[]models.WbsCategory { return &b.categories },
		id:   func(c models.WbsCategory) types.ID { return c.ID },
		build: func(id types.ID, e models.WbsCategoryEditable, _ *models.WbsCategory) models.WbsCategory {
			return models.WbsCategory{Model: models.Model{ID: id}, WbsCategoryEditable: e}
		},
		validate: func(e models.WbsCategoryEditable) []string {
			return missing(map[string]string{"category_name": e.CategoryName})
		},
	}
	categories.register(r, "/wbs_categories/")

	subcategories := resource[models.WbsSubcategory, models.WbsSubcategoryEditable]{
		b:    b,
		name: "WBS Subcategory",
		list: func() *[]models.WbsSubcategory { return &b.subcategories },
		id:   func(s models.WbsSubcategory) types.ID { return s.ID },
		build: func(id types.ID, e models.WbsSubcategoryEditable, _ *models.WbsSubcategory) models.WbsSubcategory {
			return models.WbsSubcategory{Model: models.Model{ID: id}, WbsSubcategoryEditable: e}
		},
		validate: func(e models.WbsSubcategoryEditable) []string {
			return missing(map[string]string{"subcategory_name": e.SubcategoryName})
		},
	}
	subcategories.register(r, "/wbs_subcategories/")

	transactions := resource[models.LedgerTransaction, models.LedgerTransactionEditable]{
		b:    b,
		name: "Transaction",
		list: func() *[]models.LedgerTransaction { return &b.transactions },
		id:   func(t models.LedgerTransaction) types.ID { return t.ID },
		build: func(id types.ID, e models.LedgerTransactionEditable, old *models.LedgerTransaction) models.LedgerTransaction {
			t := models.LedgerTransaction{Model: models.Model{ID: id}, LedgerTransactionEditable: e}
			if old != nil {
				t.CreatedAt = old.CreatedAt
			}
			return t
		},
		validate: func(e models.LedgerTransactionEditable) []string {
			return missing(map[string]string{
				"vendor_name":         e.VendorName,
				"expense_description": e.ExpenseDescription,
			})
		},
	}
	transactions.register(r, "/ledger_transactions/")

	r.GET("/edit_history/", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		c.JSON(http.StatusOK, window(c, b.history))
	})

	r.GET("/dashboard/summary/", func(c *gin.Context) {
		programID, err := types.ParseID(c.Query("program_id"))
		if err != nil {
			validation(c, "program_id")
			return
		}

		asOf, err := types.ParseDate(c.Query("as_of_date"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid date format. Use YYYY-MM-DD."})
			return
		}

		b.mu.Lock()
		summary, ok := b.summaries[programID]
		b.mu.Unlock()

		if !ok {
			summary = models.DashboardSummary{
				ProgramID:       programID,
				MonthlyCashFlow: map[types.Month]models.CashFlowEntry{},
				VarianceAlerts:  []models.VarianceAlert{},
				TopVendors:      []models.TopVendor{},
			}
		}
		summary.AsOfDate = &asOf

		c.JSON(http.StatusOK, summary)
	})
}

// resource serves the list, create, update and delete endpoints of a collection.
type resource[T any, E any] struct {
	b        *Backend
	name     string
	list     func() *[]T
	id       func(T) types.ID
	build    func(id types.ID, e E, old *T) T
	validate func(E) []string
}

func (s resource[T, E]) register(r *gin.Engine, path string) {
	r.GET(path, s.index)
	r.POST(path, s.create)
	r.PUT(path+":id", s.update)
	r.DELETE(path+":id", s.delete)
}

func (s resource[T, E]) index(c *gin.Context) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	c.JSON(http.StatusOK, window(c, *s.list()))
}

func (s resource[T, E]) get(c *gin.Context) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	i, ok := s.find(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, (*s.list())[i])
}

func (s resource[T, E]) create(c *gin.Context) {
	e, ok := s.bind(c)
	if !ok {
		return
	}

	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	item := s.build(s.b.id(), e, nil)
	*s.list() = append(*s.list(), item)
	c.JSON(http.StatusOK, item)
}

func (s resource[T, E]) update(c *gin.Context) {
	e, ok := s.bind(c)
	if !ok {
		return
	}

	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	i, ok := s.find(c)
	if !ok {
		return
	}

	list := *s.list()
	list[i] = s.build(s.id(list[i]), e, &list[i])
	c.JSON(http.StatusOK, list[i])
}

func (s resource[T, E]) delete(c *gin.Context) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	i, ok := s.find(c)
	if !ok {
		return
	}

	list := *s.list()
	*s.list() = append(list[:i:i], list[i+1:]...)
	c.JSON(http.StatusOK, gin.H{"detail": s.name + " deleted"})
}

func (s resource[T, E]) find(c *gin.Context) (int, bool) {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		validation(c, "id")
		return 0, false
	}

	for i, item := range *s.list() {
		if s.id(item) == id {
			return i, true
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"detail": s.name + " not found"})
	return 0, false
}

func (s resource[T, E]) bind(c *gin.Context) (E, bool) {
	var e E
	if err := json.NewDecoder(c.Request.Body).Decode(&e); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{{"loc": []string{"body"}, "msg": err.Error()}}})
		return e, false
	}

	if fields := s.validate(e); len(fields) > 0 {
		validation(c, fields...)
		return e, false
	}

	return e, true
}

// window applies the skip and limit query parameters.
func window[T any](c *gin.Context, items []T) []T {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if skip > len(items) {
		skip = len(items)
	}

	end := len(items)
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && skip+limit < end {
		end = skip + limit
	}

	return append(make([]T, 0, end-skip), items[skip:end]...)
}

func missing(fields map[string]string) []string {
	names := make([]string, 0)
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func validation(c *gin.Context, fields ...string) {
	detail := make([]gin.H, 0, len(fields))
	for _, f := range fields {
		detail = append(detail, gin.H{"loc": []string{"body", f}, "msg": "Field required"})
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": detail})
}
