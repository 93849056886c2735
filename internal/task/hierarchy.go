package task

// Hierarchy integrity: cycle prevention on link, ancestor walks, and
// nested subtree reads. The acyclic invariant is enforced here, at link
// time; reads below rely on it for termination but still carry a
// visited guard so corrupted rows cannot loop the process.

// LinkToParent sets parentID as the parent of taskID. It fails with
// ErrTaskNotFound / ErrParentNotFound when either side is missing and
// with CircularDependencyError when the link would close a cycle.
//
// Cycle detection walks upward from the proposed parent toward the
// root. The walk is bounded by the total task count, so it terminates
// even on corrupted data.
func (s *Service) LinkToParent(taskID, parentID int64) (Task, error) {
	if _, err := s.store.GetTask(taskID); err != nil {
		return Task{}, ErrTaskNotFound
	}
	parent, err := s.store.GetTask(parentID)
	if err != nil {
		return Task{}, ErrParentNotFound
	}

	if taskID == parentID {
		return Task{}, &CircularDependencyError{TaskID: taskID, ParentID: parentID}
	}

	bound, err := s.store.CountTasks()
	if err != nil {
		return Task{}, err
	}

	seen := make(map[int64]bool)
	cur := parent
	for steps := 0; steps <= bound; steps++ {
		if cur.ID == taskID {
			return Task{}, &CircularDependencyError{TaskID: taskID, ParentID: parentID}
		}
		if cur.ParentTaskID == nil || seen[cur.ID] {
			break
		}
		seen[cur.ID] = true
		next, err := s.store.GetTask(*cur.ParentTaskID)
		if err != nil {
			break // dangling ancestor reference, chain ends here
		}
		cur = next
	}

	pid := &parentID
	if err := s.store.UpdateTaskFields(taskID, UpdateFields{ParentTaskID: &pid}); err != nil {
		return Task{}, err
	}
	return s.store.GetTask(taskID)
}

// UnlinkFromParent clears the task's parent reference. It always
// succeeds when the task exists.
func (s *Service) UnlinkFromParent(taskID int64) (Task, error) {
	if _, err := s.store.GetTask(taskID); err != nil {
		return Task{}, err
	}
	var none *int64
	if err := s.store.UpdateTaskFields(taskID, UpdateFields{ParentTaskID: &none}); err != nil {
		return Task{}, err
	}
	return s.store.GetTask(taskID)
}

// Subtasks returns the direct children of a task, ordered by
// sort_order.
func (s *Service) Subtasks(parentID int64) ([]Task, error) {
	if _, err := s.store.GetTask(parentID); err != nil {
		return nil, err
	}
	return s.store.Subtasks(parentID)
}

// Hierarchy returns the task with its subtasks nested recursively.
func (s *Service) Hierarchy(taskID int64) (Node, error) {
	root, err := s.store.GetTask(taskID)
	if err != nil {
		return Node{}, err
	}
	seen := make(map[int64]bool)
	return s.buildNode(root, seen)
}

func (s *Service) buildNode(t Task, seen map[int64]bool) (Node, error) {
	seen[t.ID] = true
	node := Node{Task: t, Subtasks: []Node{}}

	children, err := s.store.Subtasks(t.ID)
	if err != nil {
		return Node{}, err
	}
	for _, child := range children {
		if seen[child.ID] {
			continue
		}
		sub, err := s.buildNode(child, seen)
		if err != nil {
			return Node{}, err
		}
		node.Subtasks = append(node.Subtasks, sub)
	}
	return node, nil
}
