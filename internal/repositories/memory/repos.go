package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"vena/internal/models"
	"vena/internal/pricing"
	"vena/internal/repositories"
)

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, repositories.ErrNotFound)
}

// ---- leads

type leadRepo struct{ acquire access }

func (r *leadRepo) Create(_ context.Context, l *models.Lead) error {
	d, done := r.acquire()
	defer done()
	if _, ok := d.leads[l.ID]; ok {
		return fmt.Errorf("create lead: duplicate id %q", l.ID)
	}
	d.leads[l.ID] = *l
	return nil
}

func (r *leadRepo) Update(_ context.Context, l *models.Lead, expected models.LeadStatus) error {
	d, done := r.acquire()
	defer done()
	existing, ok := d.leads[l.ID]
	if !ok {
		return notFound("update lead")
	}
	if existing.Status != expected {
		return fmt.Errorf("update lead: %w", repositories.ErrConflict)
	}
	d.leads[l.ID] = *l
	return nil
}

func (r *leadRepo) GetByID(_ context.Context, id string) (*models.Lead, error) {
	d, done := r.acquire()
	defer done()
	l, ok := d.leads[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *leadRepo) List(_ context.Context) ([]*models.Lead, error) {
	d, done := r.acquire()
	defer done()
	res := make([]*models.Lead, 0, len(d.leads))
	for _, l := range d.leads {
		res = append(res, &l)
	}
	slices.SortFunc(res, func(a, b *models.Lead) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return res, nil
}

// ---- clients

type clientRepo struct{ acquire access }

func (r *clientRepo) Create(_ context.Context, c *models.Client) error {
	d, done := r.acquire()
	defer done()
	if _, ok := d.clients[c.ID]; ok {
		return fmt.Errorf("create client: duplicate id %q", c.ID)
	}
	for _, existing := range d.clients {
		if existing.PortalAccessID == c.PortalAccessID {
			return fmt.Errorf("create client: duplicate portal access id")
		}
	}
	d.clients[c.ID] = *c
	return nil
}

func (r *clientRepo) Update(_ context.Context, c *models.Client) error {
	d, done := r.acquire()
	defer done()
	existing, ok := d.clients[c.ID]
	if !ok {
		return notFound("update client")
	}
	updated := *c
	updated.PortalAccessID = existing.PortalAccessID
	updated.Since = existing.Since
	d.clients[c.ID] = updated
	return nil
}

func (r *clientRepo) GetByID(_ context.Context, id string) (*models.Client, error) {
	d, done := r.acquire()
	defer done()
	c, ok := d.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *clientRepo) GetByPortalToken(_ context.Context, token string) (*models.Client, error) {
	d, done := r.acquire()
	defer done()
	for _, c := range d.clients {
		if c.PortalAccessID == token {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *clientRepo) List(_ context.Context) ([]*models.Client, error) {
	d, done := r.acquire()
	defer done()
	res := make([]*models.Client, 0, len(d.clients))
	for _, c := range d.clients {
		res = append(res, &c)
	}
	slices.SortFunc(res, func(a, b *models.Client) int {
		if c := b.Since.Compare(a.Since); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return res, nil
}

func (r *clientRepo) Delete(_ context.Context, id string) error {
	d, done := r.acquire()
	defer done()
	if _, ok := d.clients[id]; !ok {
		return notFound("delete client")
	}
	delete(d.clients, id)
	return nil
}

// ---- projects

type projectRepo struct{ acquire access }

func cloneProject(p models.Project) models.Project {
	p.AddOns = slices.Clone(p.AddOns)
	p.Team = slices.Clone(p.Team)
	if p.AddOns == nil {
		p.AddOns = []models.AddOn{}
	}
	if p.Team == nil {
		p.Team = []models.TeamAssignment{}
	}
	return p
}

func (r *projectRepo) Create(_ context.Context, p *models.Project) error {
	d, done := r.acquire()
	defer done()
	if _, ok := d.projects[p.ID]; ok {
		return fmt.Errorf("create project: duplicate id %q", p.ID)
	}
	if _, ok := d.clients[p.ClientID]; !ok {
		return fmt.Errorf("create project: unknown client %q", p.ClientID)
	}
	d.projects[p.ID] = cloneProject(*p)
	return nil
}

func (r *projectRepo) Update(_ context.Context, p *models.Project) error {
	d, done := r.acquire()
	defer done()
	existing, ok := d.projects[p.ID]
	if !ok {
		return notFound("update project")
	}
	updated := cloneProject(*p)
	// client, package, promo and creation time are fixed at booking
	updated.ClientID = existing.ClientID
	updated.PackageID = existing.PackageID
	updated.PackageName = existing.PackageName
	updated.PromoCodeID = existing.PromoCodeID
	updated.DiscountAmount = existing.DiscountAmount
	updated.CreatedAt = existing.CreatedAt
	d.projects[p.ID] = updated
	return nil
}

func (r *projectRepo) GetByID(_ context.Context, id string) (*models.Project, error) {
	d, done := r.acquire()
	defer done()
	p, ok := d.projects[id]
	if !ok {
		return nil, nil
	}
	p = cloneProject(p)
	return &p, nil
}

// GetForUpdate needs no row lock here: units of work already hold the store lock.
func (r *projectRepo) GetForUpdate(ctx context.Context, id string) (*models.Project, error) {
	return r.GetByID(ctx, id)
}

func (r *projectRepo) List(_ context.Context) ([]*models.Project, error) {
	return r.filter(func(models.Project) bool { return true }), nil
}

func (r *projectRepo) ListByClient(_ context.Context, clientID string) ([]*models.Project, error) {
	return r.filter(func(p models.Project) bool { return p.ClientID == clientID }), nil
}

func (r *projectRepo) filter(keep func(models.Project) bool) []*models.Project {
	d, done := r.acquire()
	defer done()
	res := make([]*models.Project, 0)
	for _, p := range d.projects {
		if keep(p) {
			cp := cloneProject(p)
			res = append(res, &cp)
		}
	}
	slices.SortFunc(res, func(a, b *models.Project) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return res
}

func (r *projectRepo) DeleteByClient(_ context.Context, clientID string) error {
	d, done := r.acquire()
	defer done()
	for id, p := range d.projects {
		if p.ClientID == clientID {
			delete(d.projects, id)
		}
	}
	return nil
}

// ---- transactions

type transactionRepo struct{ acquire access }

func (r *transactionRepo) Create(_ context.Context, t *models.Transaction) error {
	d, done := r.acquire()
	defer done()
	if _, ok := d.transactions[t.ID]; ok {
		return fmt.Errorf("create transaction: duplicate id %q", t.ID)
	}
	d.transactions[t.ID] = *t
	return nil
}

func (r *transactionRepo) GetByID(_ context.Context, id string) (*models.Transaction, error) {
	d, done := r.acquire()
	defer done()
	t, ok := d.transactions[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *transactionRepo) List(_ context.Context) ([]*models.Transaction, error) {
	return r.filter(func(models.Transaction) bool { return true }), nil
}

func (r *transactionRepo) ListByProject(_ context.Context, projectID string) ([]*models.Transaction, error) {
	return r.filter(func(t models.Transaction) bool { return t.ProjectID == projectID }), nil
}

func (r *transactionRepo) filter(keep func(models.Transaction) bool) []*models.Transaction {
	d, done := r.acquire()
	defer done()
	res := make([]*models.Transaction, 0)
	for _, t := range d.transactions {
		if keep(t) {
			res = append(res, &t)
		}
	}
	slices.SortFunc(res, func(a, b *models.Transaction) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return res
}

func (r *transactionRepo) DeleteByProject(_ context.Context, projectID string) error {
	d, done := r.acquire()
	defer done()
	for id, t := range d.transactions {
		if t.ProjectID == projectID {
			delete(d.transactions, id)
		}
	}
	return nil
}

// ---- cards

type cardRepo struct{ acquire access }

func (r *cardRepo) Create(_ context.Context, c *models.Card) error {
	d, done := r.acquire()
	defer done()
	if _, ok := d.cards[c.ID]; ok {
		return fmt.Errorf("create card: duplicate id %q", c.ID)
	}
	d.cards[c.ID] = *c
	return nil
}

func (r *cardRepo) GetByID(_ context.Context, id string) (*models.Card, error) {
	d, done := r.acquire()
	defer done()
	c, ok := d.cards[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *cardRepo) List(_ context.Context) ([]*models.Card, error) {
	d, done := r.acquire()
	defer done()
	res := make([]*models.Card, 0, len(d.cards))
	for _, c := range d.cards {
		res = append(res, &c)
	}
	slices.SortFunc(res, func(a, b *models.Card) int {
		if c := cmp.Compare(a.BankName, b.BankName); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return res, nil
}

func (r *cardRepo) AdjustBalance(_ context.Context, id string, delta float64) error {
	d, done := r.acquire()
	defer done()
	c, ok := d.cards[id]
	if !ok {
		return notFound("adjust card balance")
	}
	c.Balance += delta
	d.cards[id] = c
	return nil
}

// ---- packages

type packageRepo struct{ acquire access }

func clonePackage(p models.Package) models.Package {
	p.PhysicalItems = slices.Clone(p.PhysicalItems)
	p.DigitalItems = slices.Clone(p.DigitalItems)
	if p.PhysicalItems == nil {
		p.PhysicalItems = []models.PhysicalItem{}
	}
	if p.DigitalItems == nil {
		p.DigitalItems = []string{}
	}
	return p
}

func (r *packageRepo) Create(_ context.Context, p *models.Package) error {
	d, done := r.acquire()
	defer done()
	if _, ok := d.packages[p.ID]; ok {
		return fmt.Errorf("create package: duplicate id %q", p.ID)
	}
	d.packages[p.ID] = clonePackage(*p)
	return nil
}

func (r *packageRepo) Update(_ context.Context, p *models.Package) error {
	d, done := r.acquire()
	defer done()
	if _, ok := d.packages[p.ID]; !ok {
		return notFound("update package")
	}
	d.packages[p.ID] = clonePackage(*p)
	return nil
}

func (r *packageRepo) GetByID(_ context.Context, id string) (*models.Package, error) {
	d, done := r.acquire()
	defer done()
	p, ok := d.packages[id]
	if !ok {
		return nil, nil
	}
	p = clonePackage(p)
	return &p, nil
}

func (r *packageRepo) List(_ context.Context) ([]*models.Package, error) {
	d, done := r.acquire()
	defer done()
	res := make([]*models.Package, 0, len(d.packages))
	for _, p := range d.packages {
		cp := clonePackage(p)
		res = append(res, &cp)
	}
	slices.SortFunc(res, func(a, b *models.Package) int {
		if c := cmp.Compare(a.Price, b.Price); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return res, nil
}

// ---- add-ons

type addOnRepo struct{ acquire access }

func (r *addOnRepo) Create(_ context.Context, a *models.AddOn) error {
	d, done := r.acquire()
	defer done()
	if _, ok := d.addOns[a.ID]; ok {
		return fmt.Errorf("create add-on: duplicate id %q", a.ID)
	}
	d.addOns[a.ID] = *a
	return nil
}

func (r *addOnRepo) GetByID(_ context.Context, id string) (*models.AddOn, error) {
	d, done := r.acquire()
	defer done()
	a, ok := d.addOns[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *addOnRepo) List(_ context.Context) ([]*models.AddOn, error) {
	d, done := r.acquire()
	defer done()
	res := make([]*models.AddOn, 0, len(d.addOns))
	for _, a := range d.addOns {
		res = append(res, &a)
	}
	slices.SortFunc(res, func(a, b *models.AddOn) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return res, nil
}

// ---- promo codes

type promoRepo struct{ acquire access }

func (r *promoRepo) Create(_ context.Context, p *models.PromoCode) error {
	d, done := r.acquire()
	defer done()
	if _, ok := d.promos[p.ID]; ok {
		return fmt.Errorf("create promo code: duplicate id %q", p.ID)
	}
	for _, existing := range d.promos {
		if strings.EqualFold(existing.Code, p.Code) {
			return fmt.Errorf("create promo code: duplicate code %q", p.Code)
		}
	}
	d.promos[p.ID] = *p
	return nil
}

func (r *promoRepo) Update(_ context.Context, p *models.PromoCode) error {
	d, done := r.acquire()
	defer done()
	existing, ok := d.promos[p.ID]
	if !ok {
		return notFound("update promo code")
	}
	updated := *p
	updated.UsageCount = existing.UsageCount
	updated.CreatedAt = existing.CreatedAt
	d.promos[p.ID] = updated
	return nil
}

func (r *promoRepo) GetByID(_ context.Context, id string) (*models.PromoCode, error) {
	d, done := r.acquire()
	defer done()
	p, ok := d.promos[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *promoRepo) GetByCode(_ context.Context, code string) (*models.PromoCode, error) {
	d, done := r.acquire()
	defer done()
	promos := make([]*models.PromoCode, 0, len(d.promos))
	for _, p := range d.promos {
		promos = append(promos, &p)
	}
	return pricing.ResolvePromo(code, promos), nil
}

func (r *promoRepo) List(_ context.Context) ([]*models.PromoCode, error) {
	d, done := r.acquire()
	defer done()
	res := make([]*models.PromoCode, 0, len(d.promos))
	for _, p := range d.promos {
		res = append(res, &p)
	}
	slices.SortFunc(res, func(a, b *models.PromoCode) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return res, nil
}

func (r *promoRepo) IncrementUsage(_ context.Context, id string) error {
	d, done := r.acquire()
	defer done()
	p, ok := d.promos[id]
	if !ok {
		return notFound("increment promo usage")
	}
	if p.Exhausted() {
		return fmt.Errorf("increment promo usage: %w", repositories.ErrConflict)
	}
	p.UsageCount++
	d.promos[id] = p
	return nil
}

// ---- notifications

type notificationRepo struct{ acquire access }

func (r *notificationRepo) Create(_ context.Context, n *models.Notification) error {
	d, done := r.acquire()
	defer done()
	cp := *n
	if n.Link != nil {
		link := *n.Link
		cp.Link = &link
	}
	d.notifications[n.ID] = cp
	return nil
}

func (r *notificationRepo) List(_ context.Context, limit int) ([]*models.Notification, error) {
	d, done := r.acquire()
	defer done()
	res := make([]*models.Notification, 0, len(d.notifications))
	for _, n := range d.notifications {
		res = append(res, &n)
	}
	slices.SortFunc(res, func(a, b *models.Notification) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (r *notificationRepo) MarkRead(_ context.Context, id string) error {
	d, done := r.acquire()
	defer done()
	n, ok := d.notifications[id]
	if !ok {
		return notFound("mark notification read")
	}
	n.IsRead = true
	d.notifications[id] = n
	return nil
}

// ---- users

type userRepo struct{ acquire access }

func (r *userRepo) Create(_ context.Context, u *models.User) error {
	d, done := r.acquire()
	defer done()
	cp := *u
	cp.Email = strings.ToLower(cp.Email)
	for _, existing := range d.users {
		if existing.Email == cp.Email {
			return fmt.Errorf("create user: duplicate email %q", cp.Email)
		}
	}
	d.users[u.ID] = cp
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	d, done := r.acquire()
	defer done()
	u, ok := d.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	d, done := r.acquire()
	defer done()
	email = strings.ToLower(email)
	for _, u := range d.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) List(_ context.Context) ([]*models.User, error) {
	d, done := r.acquire()
	defer done()
	res := make([]*models.User, 0, len(d.users))
	for _, u := range d.users {
		res = append(res, &u)
	}
	slices.SortFunc(res, func(a, b *models.User) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return res, nil
}
