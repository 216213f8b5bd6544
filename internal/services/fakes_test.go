package services

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yoockh/gigmatch/internal/events"
	"github.com/yoockh/gigmatch/internal/models"
	"github.com/yoockh/gigmatch/internal/utils"
)

type memUsers struct {
	byID map[string]*models.User
}

func newMemUsers(us ...*models.User) *memUsers {
	m := &memUsers{byID: map[string]*models.User{}}
	for _, u := range us {
		m.byID[u.ID] = u
	}
	return m
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	for _, cur := range m.byID {
		if cur.Username == u.Username || cur.Email == u.Email {
			return utils.ErrConflict
		}
	}
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, utils.ErrNotFound
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range m.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (m *memUsers) ListByIDs(_ context.Context, ids []string) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := m.byID[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

type memProfiles struct {
	byUser map[string]*models.Profile
	saves  int
}

func newMemProfiles() *memProfiles { return &memProfiles{byUser: map[string]*models.Profile{}} }

func (m *memProfiles) GetByUserID(_ context.Context, userID string) (*models.Profile, error) {
	if p, ok := m.byUser[userID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, utils.ErrNotFound
}

func (m *memProfiles) GetOrCreate(ctx context.Context, userID string) (*models.Profile, error) {
	if _, ok := m.byUser[userID]; !ok {
		m.byUser[userID] = &models.Profile{UserID: userID, IsAvailable: true}
	}
	return m.GetByUserID(ctx, userID)
}

func (m *memProfiles) Save(_ context.Context, p *models.Profile, skills *[]models.Skill) error {
	m.saves++
	cp := *p
	if skills != nil {
		cp.Skills = *skills
		p.Skills = *skills
	}
	m.byUser[p.UserID] = &cp
	return nil
}

func (m *memProfiles) ListSeekerProfiles(_ context.Context) ([]models.Profile, error) {
	var out []models.Profile
	for _, p := range m.byUser {
		out = append(out, *p)
	}
	return out, nil
}

func (m *memProfiles) ListByUserIDs(_ context.Context, ids []string) ([]models.Profile, error) {
	var out []models.Profile
	for _, id := range ids {
		if p, ok := m.byUser[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

type memSkills struct {
	byName map[string]models.Skill
	next   uint
}

func newMemSkills() *memSkills { return &memSkills{byName: map[string]models.Skill{}} }

func (m *memSkills) GetOrCreate(_ context.Context, names []string) ([]models.Skill, error) {
	out := []models.Skill{}
	seen := map[string]bool{}
	for _, n := range names {
		n = models.NormalizeSkillName(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		s, ok := m.byName[n]
		if !ok {
			m.next++
			s = models.Skill{ID: m.next, Name: n}
			m.byName[n] = s
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memSkills) List(_ context.Context, isCommon *bool) ([]models.Skill, error) {
	var out []models.Skill
	for _, s := range m.byName {
		if isCommon == nil || s.IsCommon == *isCommon {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memJobs struct {
	byID map[string]*models.JobPost
}

func newMemJobs(js ...*models.JobPost) *memJobs {
	m := &memJobs{byID: map[string]*models.JobPost{}}
	for _, j := range js {
		m.byID[j.ID] = j
	}
	return m
}

func (m *memJobs) GetByID(_ context.Context, id string) (*models.JobPost, error) {
	if j, ok := m.byID[id]; ok {
		cp := *j
		return &cp, nil
	}
	return nil, utils.ErrNotFound
}

func (m *memJobs) ListActive(_ context.Context) ([]models.JobPost, error) {
	var out []models.JobPost
	for _, j := range m.byID {
		if j.IsActive {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (m *memJobs) ListByBusiness(_ context.Context, businessID string) ([]models.JobPost, error) {
	var out []models.JobPost
	for _, j := range m.byID {
		if j.BusinessID == businessID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (m *memJobs) Create(_ context.Context, j *models.JobPost, skills []models.Skill) error {
	cp := *j
	cp.RequiredSkills = skills
	j.RequiredSkills = skills
	m.byID[j.ID] = &cp
	return nil
}

func (m *memJobs) Update(_ context.Context, j *models.JobPost, skills *[]models.Skill) error {
	cp := *j
	if skills != nil {
		cp.RequiredSkills = *skills
		j.RequiredSkills = *skills
	}
	m.byID[j.ID] = &cp
	return nil
}

func (m *memJobs) SetActive(_ context.Context, id string, active bool) error {
	j, ok := m.byID[id]
	if !ok {
		return utils.ErrNotFound
	}
	j.IsActive = active
	return nil
}

func (m *memJobs) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return utils.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memMatches struct {
	rows []models.Match
	// listed counts ListForSeeker/ListForJob calls that reached storage
	listed int
}

func (m *memMatches) Upsert(_ context.Context, mt *models.Match) error {
	for i := range m.rows {
		if m.rows[i].JobID == mt.JobID && m.rows[i].SeekerID == mt.SeekerID {
			m.rows[i].Score = mt.Score
			return nil
		}
	}
	m.rows = append(m.rows, *mt)
	return nil
}

func (m *memMatches) Delete(_ context.Context, jobID, seekerID string) (bool, error) {
	for i := range m.rows {
		if m.rows[i].JobID == jobID && m.rows[i].SeekerID == seekerID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memMatches) DeleteBySeeker(_ context.Context, seekerID string) ([]string, error) {
	var kept []models.Match
	var ids []string
	for _, r := range m.rows {
		if r.SeekerID == seekerID {
			ids = append(ids, r.JobID)
			continue
		}
		kept = append(kept, r)
	}
	m.rows = kept
	return ids, nil
}

func (m *memMatches) ListForSeeker(_ context.Context, seekerID string) ([]models.Match, error) {
	m.listed++
	var out []models.Match
	for _, r := range m.rows {
		if r.SeekerID == seekerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memMatches) ListForJob(_ context.Context, jobID string) ([]models.Match, error) {
	m.listed++
	var out []models.Match
	for _, r := range m.rows {
		if r.JobID == jobID {
			out = append(out, r)
		}
	}
	return out, nil
}

type memApps struct {
	byID map[string]*models.Application
}

func newMemApps() *memApps { return &memApps{byID: map[string]*models.Application{}} }

func (m *memApps) Create(_ context.Context, a *models.Application) error {
	for _, cur := range m.byID {
		if cur.JobID == a.JobID && cur.SeekerID == a.SeekerID {
			return utils.ErrConflict
		}
	}
	cp := *a
	m.byID[a.ID] = &cp
	return nil
}

func (m *memApps) GetByID(_ context.Context, id string) (*models.Application, error) {
	if a, ok := m.byID[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, utils.ErrNotFound
}

func (m *memApps) ListBySeeker(_ context.Context, seekerID string) ([]models.Application, error) {
	var out []models.Application
	for _, a := range m.byID {
		if a.SeekerID == seekerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memApps) ListByBusiness(context.Context, string) ([]models.Application, error) {
	return nil, nil
}

func (m *memApps) UpdateStatus(_ context.Context, id string, status models.ApplicationStatus) error {
	a, ok := m.byID[id]
	if !ok {
		return utils.ErrNotFound
	}
	a.Status = status
	return nil
}

func (m *memApps) RejectOthers(_ context.Context, jobID, keepID string) (int64, error) {
	var n int64
	for _, a := range m.byID {
		if a.JobID == jobID && a.ID != keepID && a.Status == models.StatusApplied {
			a.Status = models.StatusRejected
			n++
		}
	}
	return n, nil
}

type memConversations struct {
	byID map[string]*models.Conversation
	err  error
}

func newMemConversations() *memConversations {
	return &memConversations{byID: map[string]*models.Conversation{}}
}

func (m *memConversations) GetOrCreate(_ context.Context, a, b string) (*models.Conversation, error) {
	if m.err != nil {
		return nil, m.err
	}
	participants, key := models.ConversationPair(a, b)
	for _, c := range m.byID {
		if c.PairKey == key {
			cp := *c
			return &cp, nil
		}
	}
	now := time.Now().UTC()
	c := &models.Conversation{
		ConversationID: "conv-" + key,
		PairKey:        key,
		Participants:   participants,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	m.byID[c.ConversationID] = c
	cp := *c
	return &cp, nil
}

func (m *memConversations) GetByConversationID(_ context.Context, id string) (*models.Conversation, error) {
	if c, ok := m.byID[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, utils.ErrNotFound
}

func (m *memConversations) ListByUser(_ context.Context, userID string) ([]models.Conversation, error) {
	out := []models.Conversation{}
	for _, c := range m.byID {
		if c.HasParticipant(userID) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m *memConversations) Touch(_ context.Context, id string, at time.Time) error {
	c, ok := m.byID[id]
	if !ok {
		return utils.ErrNotFound
	}
	c.UpdatedAt = at
	return nil
}

type memMessages struct {
	rows []*models.Message
}

func (m *memMessages) Insert(_ context.Context, msg *models.Message) error {
	cp := *msg
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memMessages) ListByConversation(_ context.Context, id string, _ int64) ([]models.Message, error) {
	out := []models.Message{}
	for _, r := range m.rows {
		if r.ConversationID == id {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memMessages) MarkRead(_ context.Context, id, reader string) (int64, error) {
	var n int64
	for _, r := range m.rows {
		if r.ConversationID == id && r.SenderID != reader && !r.IsRead {
			r.IsRead = true
			n++
		}
	}
	return n, nil
}

func (m *memMessages) CountUnread(_ context.Context, userID string, ids []string) (int64, error) {
	in := map[string]bool{}
	for _, id := range ids {
		in[id] = true
	}
	var n int64
	for _, r := range m.rows {
		if in[r.ConversationID] && r.SenderID != userID && !r.IsRead {
			n++
		}
	}
	return n, nil
}

func (m *memMessages) Last(_ context.Context, id string) (*models.Message, error) {
	var last *models.Message
	for _, r := range m.rows {
		if r.ConversationID == id {
			last = r
		}
	}
	return last, nil
}

// memCache implements cache.Cache and cache.PubSub.
type memCache struct {
	mu        sync.Mutex
	data      map[string][]byte
	deleted   []string
	published map[string][][]byte
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, published: map[string][][]byte{}}
}

func (m *memCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (m *memCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[key] = b
	m.mu.Unlock()
	return nil
}

func (m *memCache) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	m.deleted = append(m.deleted, keys...)
	return nil
}

func (m *memCache) wasDeleted(key string) bool {
	for _, k := range m.deleted {
		if k == key {
			return true
		}
	}
	return false
}

func (m *memCache) Publish(_ context.Context, channel string, val any) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.published[channel] = append(m.published[channel], b)
	m.mu.Unlock()
	return nil
}

func (m *memCache) Subscribe(context.Context, string) (<-chan []byte, func() error) {
	ch := make(chan []byte)
	close(ch)
	return ch, func() error { return nil }
}

// recordingBus captures published events and can forward them to a real bus.
type recordingBus struct {
	events []events.Event
	next   events.Publisher
}

func (r *recordingBus) Publish(ctx context.Context, ev events.Event) error {
	r.events = append(r.events, ev)
	if r.next != nil {
		return r.next.Publish(ctx, ev)
	}
	return nil
}

func (r *recordingBus) kinds() string {
	var ks []string
	for _, ev := range r.events {
		ks = append(ks, string(ev.Kind))
	}
	return strings.Join(ks, ",")
}
