package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/habitlog/internal/calendar"
	"github.com/habitlog/internal/model"
)

var (
	// ErrNoUserSelected 在尚未选中用户档案时返回。
	ErrNoUserSelected = errors.New("no user selected")
	// ErrEmptyName 在名称/文本为空时返回。
	ErrEmptyName = errors.New("name is required")
)

// SyncError 是一条用户可见的同步告警。
// 远端镜像失败只降级为告警，从不影响本地提交。
type SyncError struct {
	Context    string    `json:"context"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurredAt"`
}

// 同步告警只保留最近若干条用于展示。
const maxSyncErrors = 20

// StateService 独占持有规范的内存状态树，是会话内数据的唯一事实来源。
// 每个变更操作：解析目标文档（缺失时种子化默认文档）、施加字段级修改、
// 整体规范化、同步提交进内存并落盘快照，最后异步发起对应的远端写穿。
// 原始设计运行在单线程事件循环上，这里以互斥锁换取同等的顺序保证。
type StateService struct {
	mu            sync.Mutex
	state         model.AppState
	remote        RemoteSync
	snapshots     *SnapshotService
	sessionActive bool
	ownerID       string
	syncErrors    []SyncError
	wg            sync.WaitGroup
}

// NewStateService 构造 StateService，初始选中当前自然月。
func NewStateService(remote RemoteSync, snapshots *SnapshotService) *StateService {
	now := time.Now()
	return &StateService{
		remote:    remote,
		snapshots: snapshots,
		state: model.AppState{
			Version:       model.StorageVersion,
			SelectedYear:  now.Year(),
			SelectedMonth: int(now.Month()),
			MonthsByUser:  map[string]map[string]model.MonthDocument{},
		},
	}
}

// RestoreSnapshot 从本地持久化面恢复状态树（含版本迁移）。
// 无快照时保持初始状态，不算错误。
func (s *StateService) RestoreSnapshot() error {
	loaded, err := s.snapshots.Load()
	if err != nil {
		return err
	}
	if loaded == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = *loaded
	if s.state.MonthsByUser == nil {
		s.state.MonthsByUser = map[string]map[string]model.MonthDocument{}
	}
	return nil
}

// InitializeRemote 建立远端会话并引导档案，每个进程会话执行一次。
// 会话已建立后重复调用只返回当前身份，不重新引导档案；
// 切换到另一身份必须经由认领（SwitchOwner）。
// 远端未配置时直接进入纯本地模式；会话建立失败同样降级为纯本地，
// 只留下告警，绝不让启动失败。
func (s *StateService) InitializeRemote(sessions *SessionService, existingOwnerID string) SessionIdentity {
	s.mu.Lock()
	if s.sessionActive {
		owner := s.ownerID
		s.mu.Unlock()
		return SessionIdentity{OwnerID: owner}
	}
	s.mu.Unlock()

	return s.bootstrapRemote(sessions, existingOwnerID)
}

// SwitchOwner 在认领口令校验通过后强制切换到指定身份并重新引导档案。
func (s *StateService) SwitchOwner(sessions *SessionService, ownerID string) SessionIdentity {
	return s.bootstrapRemote(sessions, ownerID)
}

func (s *StateService) bootstrapRemote(sessions *SessionService, existingOwnerID string) SessionIdentity {
	if !s.remote.Enabled() {
		// 纯本地模式没有远端档案可加载，首次启动时就地种子化默认档案
		s.mu.Lock()
		if len(s.state.Users) == 0 {
			user := model.NewUserProfile("User 1")
			s.state.Users = []model.UserProfile{user}
			s.state.SelectedUserID = user.ID
			s.persistLocked()
		}
		year, month := s.state.SelectedYear, s.state.SelectedMonth
		s.mu.Unlock()

		if _, err := s.EnsureMonth(year, month); err != nil {
			s.recordSyncError("加载当前月份", err)
		}
		return SessionIdentity{}
	}

	identity, err := sessions.EnsureOwner(existingOwnerID)
	if err != nil {
		s.recordSyncError("建立会话", err)
		return SessionIdentity{}
	}

	s.mu.Lock()
	preferred := s.state.SelectedUserID
	s.mu.Unlock()

	users, selected, err := sessions.BootstrapProfiles(identity.OwnerID, preferred)
	if err != nil {
		s.recordSyncError("加载档案", err)
		return identity
	}

	s.mu.Lock()
	s.ownerID = identity.OwnerID
	s.sessionActive = true
	s.state.Users = users
	s.state.SelectedUserID = selected
	s.persistLocked()
	year, month := s.state.SelectedYear, s.state.SelectedMonth
	s.mu.Unlock()

	if _, err := s.EnsureMonth(year, month); err != nil {
		s.recordSyncError("加载当前月份", err)
	}
	return identity
}

// SessionActive 返回远端会话是否已建立。
func (s *StateService) SessionActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionActive
}

// State 返回状态树副本（文档为深拷贝）。
func (s *StateService) State() model.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cloneStateLocked()
}

// ExportState 导出完整状态树，用于备份。
func (s *StateService) ExportState() model.AppState {
	return s.State()
}

// ImportState 用导入的状态整体替换内存与持久化状态（不做合并）。
// 任一文档的年月不合法时整个载荷视为畸形数据被拒绝，现有状态不变。
// 所有文档都会先过一遍规范化；selectedUserId 没有对应月份映射时
// 留空映射，待下一次 EnsureMonth 补齐。
func (s *StateService) ImportState(state model.AppState) error {
	if state.MonthsByUser == nil {
		state.MonthsByUser = map[string]map[string]model.MonthDocument{}
	}
	for _, months := range state.MonthsByUser {
		for key, doc := range months {
			if _, err := calendar.DaysInMonth(doc.Year, doc.Month); err != nil {
				return fmt.Errorf("import month %s: %w", key, err)
			}
		}
	}
	for userID, months := range state.MonthsByUser {
		for key, doc := range months {
			if doc.RemoteID == "" {
				doc.RemoteID = model.NewID()
			}
			months[key] = model.Normalize(doc)
		}
		state.MonthsByUser[userID] = months
	}
	state.Version = model.StorageVersion
	if state.SelectedMonth < 1 || state.SelectedMonth > 12 {
		now := time.Now()
		state.SelectedYear = now.Year()
		state.SelectedMonth = int(now.Month())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.persistLocked()
	return nil
}

// SyncErrors 返回最近的同步告警。
func (s *StateService) SyncErrors() []SyncError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SyncError(nil), s.syncErrors...)
}

// ClearSyncErrors 清空同步告警。
func (s *StateService) ClearSyncErrors() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncErrors = nil
}

// Flush 等待所有在途的远端写穿完成，用于测试与优雅停机。
func (s *StateService) Flush() {
	s.wg.Wait()
}

// SelectUser 切换当前用户并确保其当前月份就绪。
func (s *StateService) SelectUser(userID string) error {
	s.mu.Lock()
	s.state.SelectedUserID = userID
	s.persistLocked()
	year, month := s.state.SelectedYear, s.state.SelectedMonth
	s.mu.Unlock()

	_, err := s.EnsureMonth(year, month)
	return err
}

// SetSelectedMonthYear 切换当前年月并确保对应月份就绪。
// 切换周期意味着寻址另一个文档，绝不原地修改既有文档的年月。
func (s *StateService) SetSelectedMonthYear(year, month int) error {
	if _, err := calendar.DaysInMonth(year, month); err != nil {
		return err
	}

	s.mu.Lock()
	s.state.SelectedYear = year
	s.state.SelectedMonth = month
	s.persistLocked()
	s.mu.Unlock()

	_, err := s.EnsureMonth(year, month)
	return err
}

// AddUser 新建用户档案并切换过去。
func (s *StateService) AddUser(name string) (model.UserProfile, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return model.UserProfile{}, ErrEmptyName
	}

	user := model.NewUserProfile(trimmed)

	s.mu.Lock()
	s.state.Users = append(s.state.Users, user)
	s.state.SelectedUserID = user.ID
	s.persistLocked()
	ownerID := s.ownerID
	year, month := s.state.SelectedYear, s.state.SelectedMonth
	s.mu.Unlock()

	s.writeThrough("创建档案", func(r RemoteSync) error {
		return r.CreateProfile(ownerID, user)
	})

	if _, err := s.EnsureMonth(year, month); err != nil {
		return user, err
	}
	return user, nil
}

// EnsureMonth 完成 (用户, 月份键) 单元的 absent→present 迁移：
// 优先远端读穿，其次种子化默认文档；种子化的文档会写回远端。
func (s *StateService) EnsureMonth(year, month int) (model.MonthDocument, error) {
	if _, err := calendar.DaysInMonth(year, month); err != nil {
		return model.MonthDocument{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userID := s.state.SelectedUserID
	if userID == "" {
		return model.MonthDocument{}, ErrNoUserSelected
	}

	key := calendar.MonthKey(year, month)
	if doc, ok := s.state.MonthsByUser[userID][key]; ok {
		return doc.Clone(), nil
	}

	if s.sessionActive {
		remoteDoc := s.remote.FetchMonth(userID, year, month, s.reportLocked)
		if remoteDoc != nil {
			s.commitLocked(userID, key, *remoteDoc)
			return remoteDoc.Clone(), nil
		}
	}

	doc := model.NewMonthDocument(year, month)
	s.commitLocked(userID, key, doc)

	if s.sessionActive {
		seeded := doc.Clone()
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.remote.CreateMonth(userID, seeded, s.recordSyncError)
		}()
	}

	return doc.Clone(), nil
}

// RefreshMonth 强制从远端重新读穿并覆盖缓存。
// 远端没有该月或会话未建立时缓存保持不变。
func (s *StateService) RefreshMonth(year, month int) (*model.MonthDocument, error) {
	if _, err := calendar.DaysInMonth(year, month); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userID := s.state.SelectedUserID
	if userID == "" {
		return nil, ErrNoUserSelected
	}
	if !s.sessionActive {
		return nil, nil
	}

	remoteDoc := s.remote.FetchMonth(userID, year, month, s.reportLocked)
	if remoteDoc == nil {
		return nil, nil
	}

	s.commitLocked(userID, calendar.MonthKey(year, month), *remoteDoc)
	clone := remoteDoc.Clone()
	return &clone, nil
}

// CurrentMonth 返回当前选中 (用户, 年月) 的文档，必要时物化。
func (s *StateService) CurrentMonth() (model.MonthDocument, error) {
	s.mu.Lock()
	year, month := s.state.SelectedYear, s.state.SelectedMonth
	s.mu.Unlock()
	return s.EnsureMonth(year, month)
}

// ToggleDailyCheck 翻转某日习惯某天的勾选状态。
// dayIndex 为 0 基索引，合法范围由调用方保证。
func (s *StateService) ToggleDailyCheck(habitID string, dayIndex int) (model.MonthDocument, error) {
	return s.mutate("同步日打卡", func(doc *model.MonthDocument) func(RemoteSync) error {
		checks := append([]bool(nil), doc.Checks[habitID]...)
		for len(checks) <= dayIndex {
			checks = append(checks, false)
		}
		checks[dayIndex] = !checks[dayIndex]
		doc.Checks[habitID] = checks

		checked := checks[dayIndex]
		return func(r RemoteSync) error {
			return r.UpsertDailyCheck(habitID, dayIndex+1, checked)
		}
	})
}

// ToggleWeeklyCheck 翻转某周习惯某周的勾选状态（weekIndex 为 0 基）。
func (s *StateService) ToggleWeeklyCheck(habitID string, weekIndex int) (model.MonthDocument, error) {
	return s.mutate("同步周打卡", func(doc *model.MonthDocument) func(RemoteSync) error {
		checked := false
		for i, habit := range doc.WeeklyHabits {
			if habit.ID != habitID {
				continue
			}
			list := append([]bool(nil), habit.ChecksByWeek...)
			for len(list) <= weekIndex {
				list = append(list, false)
			}
			list[weekIndex] = !list[weekIndex]
			doc.WeeklyHabits[i].ChecksByWeek = list
			checked = list[weekIndex]
		}

		return func(r RemoteSync) error {
			return r.UpsertWeeklyCheck(habitID, weekIndex+1, checked)
		}
	})
}

// ToggleMonthlyCheck 翻转某月习惯的勾选状态。
func (s *StateService) ToggleMonthlyCheck(habitID string) (model.MonthDocument, error) {
	return s.mutate("同步月习惯", func(doc *model.MonthDocument) func(RemoteSync) error {
		checked := false
		for i, habit := range doc.MonthlyHabits {
			if habit.ID == habitID {
				doc.MonthlyHabits[i].Checked = !habit.Checked
				checked = doc.MonthlyHabits[i].Checked
			}
		}
		return func(r RemoteSync) error {
			return r.UpdateMonthlyCheck(habitID, checked)
		}
	})
}

// ToggleGoal 翻转某月目标的完成状态。
func (s *StateService) ToggleGoal(goalID string) (model.MonthDocument, error) {
	return s.mutate("同步目标", func(doc *model.MonthDocument) func(RemoteSync) error {
		done := false
		for i, goal := range doc.Goals {
			if goal.ID == goalID {
				doc.Goals[i].Done = !goal.Done
				done = doc.Goals[i].Done
			}
		}
		return func(r RemoteSync) error {
			return r.UpdateGoalDone(goalID, done)
		}
	})
}

// ToggleWeeklyGoal 翻转某周目标的完成状态。
func (s *StateService) ToggleWeeklyGoal(goalID string) (model.MonthDocument, error) {
	return s.mutate("同步周目标", func(doc *model.MonthDocument) func(RemoteSync) error {
		done := false
		for i, goal := range doc.WeeklyGoals {
			if goal.ID == goalID {
				doc.WeeklyGoals[i].Done = !goal.Done
				done = doc.WeeklyGoals[i].Done
			}
		}
		return func(r RemoteSync) error {
			return r.UpdateWeeklyGoalDone(goalID, done)
		}
	})
}

// UpdateNotes 更新当月备注。
func (s *StateService) UpdateNotes(notes string) (model.MonthDocument, error) {
	return s.mutate("同步备注", func(doc *model.MonthDocument) func(RemoteSync) error {
		doc.Notes = notes
		monthID := doc.RemoteID
		return func(r RemoteSync) error {
			return r.UpdateNotes(monthID, notes)
		}
	})
}

// SetMoodForDay 记录某天的心情评分（dayIndex 为 0 基）。
func (s *StateService) SetMoodForDay(dayIndex, score int) (model.MonthDocument, error) {
	return s.mutate("同步心情", func(doc *model.MonthDocument) func(RemoteSync) error {
		for len(doc.MoodByDay) <= dayIndex {
			doc.MoodByDay = append(doc.MoodByDay, model.DefaultMoodScore)
		}
		doc.MoodByDay[dayIndex] = score
		monthID := doc.RemoteID
		return func(r RemoteSync) error {
			return r.UpsertMood(monthID, dayIndex+1, score)
		}
	})
}

// UpdateJournalEntry 更新某天的日记（dayIndex 为 0 基）。
func (s *StateService) UpdateJournalEntry(dayIndex int, entry string) (model.MonthDocument, error) {
	return s.mutate("同步日记", func(doc *model.MonthDocument) func(RemoteSync) error {
		for len(doc.JournalEntries) <= dayIndex {
			doc.JournalEntries = append(doc.JournalEntries, "")
		}
		doc.JournalEntries[dayIndex] = entry
		monthID := doc.RemoteID
		return func(r RemoteSync) error {
			return r.UpsertJournal(monthID, dayIndex+1, entry)
		}
	})
}

// AddDailyHabit 新增一个日习惯。
func (s *StateService) AddDailyHabit(name string) (model.MonthDocument, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return model.MonthDocument{}, ErrEmptyName
	}

	return s.mutate("同步新增日习惯", func(doc *model.MonthDocument) func(RemoteSync) error {
		habit := model.NewHabit(trimmed)
		doc.DailyHabits = append(doc.DailyHabits, habit)

		monthID := doc.RemoteID
		sortOrder := len(doc.DailyHabits) - 1
		return func(r RemoteSync) error {
			return r.InsertDailyHabit(monthID, habit, sortOrder)
		}
	})
}

// RenameDailyHabit 重命名日习惯。
func (s *StateService) RenameDailyHabit(habitID, name string) (model.MonthDocument, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return model.MonthDocument{}, ErrEmptyName
	}

	return s.mutate("同步重命名日习惯", func(doc *model.MonthDocument) func(RemoteSync) error {
		for i, habit := range doc.DailyHabits {
			if habit.ID == habitID {
				doc.DailyHabits[i].Name = trimmed
			}
		}
		return func(r RemoteSync) error {
			return r.UpdateDailyHabitName(habitID, trimmed)
		}
	})
}

// RemoveDailyHabit 删除日习惯及其本地打卡数组。
func (s *StateService) RemoveDailyHabit(habitID string) (model.MonthDocument, error) {
	return s.mutate("同步删除日习惯", func(doc *model.MonthDocument) func(RemoteSync) error {
		kept := doc.DailyHabits[:0]
		for _, habit := range doc.DailyHabits {
			if habit.ID != habitID {
				kept = append(kept, habit)
			}
		}
		doc.DailyHabits = kept
		delete(doc.Checks, habitID)

		return func(r RemoteSync) error {
			return r.DeleteDailyHabit(habitID)
		}
	})
}

// AddWeeklyGoal 在某一周（1-5）下新增目标。
func (s *StateService) AddWeeklyGoal(week int, text string) (model.MonthDocument, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return model.MonthDocument{}, ErrEmptyName
	}
	if week < 1 {
		week = 1
	}
	if week > model.WeeksPerMonth {
		week = model.WeeksPerMonth
	}

	return s.mutate("同步新增周目标", func(doc *model.MonthDocument) func(RemoteSync) error {
		goal := model.WeeklyGoal{ID: model.NewID(), Text: trimmed, Week: week}
		doc.WeeklyGoals = append(doc.WeeklyGoals, goal)

		monthID := doc.RemoteID
		sortOrder := len(doc.WeeklyGoals) - 1
		return func(r RemoteSync) error {
			return r.InsertWeeklyGoal(monthID, goal, sortOrder)
		}
	})
}

// RemoveWeeklyGoal 删除周目标。
func (s *StateService) RemoveWeeklyGoal(goalID string) (model.MonthDocument, error) {
	return s.mutate("同步删除周目标", func(doc *model.MonthDocument) func(RemoteSync) error {
		kept := doc.WeeklyGoals[:0]
		for _, goal := range doc.WeeklyGoals {
			if goal.ID != goalID {
				kept = append(kept, goal)
			}
		}
		doc.WeeklyGoals = kept

		return func(r RemoteSync) error {
			return r.DeleteWeeklyGoal(goalID)
		}
	})
}

// mutate 是所有字段级变更共用的骨架：
// 锁内解析并修改当前文档、规范化、提交并落盘，
// 随后在锁外异步执行远端写穿；写穿失败只记告警。
func (s *StateService) mutate(context string, edit func(doc *model.MonthDocument) func(RemoteSync) error) (model.MonthDocument, error) {
	s.mu.Lock()

	userID := s.state.SelectedUserID
	if userID == "" {
		s.mu.Unlock()
		return model.MonthDocument{}, ErrNoUserSelected
	}

	year, month := s.state.SelectedYear, s.state.SelectedMonth
	key := calendar.MonthKey(year, month)

	doc, ok := s.state.MonthsByUser[userID][key]
	if ok {
		doc = doc.Clone()
	} else {
		doc = model.NewMonthDocument(year, month)
	}

	remoteCall := edit(&doc)
	committed := s.commitLocked(userID, key, doc)
	active := s.sessionActive
	s.mu.Unlock()

	// 本次变更物化了新文档时，先把种子月份写回远端，
	// 后续针对子表的写穿才有归属的月主行。
	if active && !ok {
		seeded := committed.Clone()
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.remote.CreateMonth(userID, seeded, s.recordSyncError)
		}()
	}

	if active && remoteCall != nil {
		s.writeThrough(context, remoteCall)
	}

	return committed, nil
}

// commitLocked 规范化并提交文档，同时落盘快照。调用方必须持锁。
func (s *StateService) commitLocked(userID, key string, doc model.MonthDocument) model.MonthDocument {
	normalized := model.Normalize(doc)

	months := s.state.MonthsByUser[userID]
	if months == nil {
		months = map[string]model.MonthDocument{}
		s.state.MonthsByUser[userID] = months
	}
	months[key] = normalized

	s.persistLocked()
	return normalized.Clone()
}

// persistLocked 将当前状态写入本地快照。本地落盘失败记为告警，
// 内存提交不受影响。调用方必须持锁。
func (s *StateService) persistLocked() {
	if err := s.snapshots.Save(s.state); err != nil {
		s.appendSyncErrorLocked("保存本地快照", err)
	}
}

// writeThrough 异步执行一次远端写穿，失败降级为告警。
func (s *StateService) writeThrough(context string, call func(RemoteSync) error) {
	s.mu.Lock()
	active := s.sessionActive
	s.mu.Unlock()
	if !active {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := call(s.remote); err != nil {
			s.recordSyncError(context, err)
		}
	}()
}

func (s *StateService) recordSyncError(context string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendSyncErrorLocked(context, err)
}

// reportLocked 供锁内的读穿回调使用。
func (s *StateService) reportLocked(context string, err error) {
	s.appendSyncErrorLocked(context, err)
}

func (s *StateService) appendSyncErrorLocked(context string, err error) {
	s.syncErrors = append(s.syncErrors, SyncError{
		Context:    context,
		Message:    fmt.Sprintf("%s: %v", context, err),
		OccurredAt: time.Now(),
	})
	if len(s.syncErrors) > maxSyncErrors {
		s.syncErrors = s.syncErrors[len(s.syncErrors)-maxSyncErrors:]
	}
}

func (s *StateService) cloneStateLocked() model.AppState {
	out := s.state
	out.Users = append([]model.UserProfile(nil), s.state.Users...)
	out.MonthsByUser = make(map[string]map[string]model.MonthDocument, len(s.state.MonthsByUser))
	for userID, months := range s.state.MonthsByUser {
		cloned := make(map[string]model.MonthDocument, len(months))
		for key, doc := range months {
			cloned[key] = doc.Clone()
		}
		out.MonthsByUser[userID] = cloned
	}
	return out
}
