package task

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLinkToParent(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	parent, _ := svc.Create(CreateParams{Title: "parent"})
	child, _ := svc.Create(CreateParams{Title: "child"})

	linked, err := svc.LinkToParent(child.ID, parent.ID)
	require.NoError(t, err)
	require.NotNil(t, linked.ParentTaskID)
	require.Equal(t, parent.ID, *linked.ParentTaskID)
	require.True(t, linked.IsSubtask())
}

func TestLinkToParent_MissingEndpoints(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	a, _ := svc.Create(CreateParams{Title: "a"})

	_, err := svc.LinkToParent(99, a.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)

	_, err = svc.LinkToParent(a.ID, 99)
	require.ErrorIs(t, err, ErrParentNotFound)
}

func TestLinkToParent_SelfRejected(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	a, _ := svc.Create(CreateParams{Title: "a"})

	_, err := svc.LinkToParent(a.ID, a.ID)
	var cErr *CircularDependencyError
	require.ErrorAs(t, err, &cErr)
	require.Equal(t, a.ID, cErr.TaskID)
}

func TestLinkToParent_CycleRejected(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	a, _ := svc.Create(CreateParams{Title: "a"})
	b, _ := svc.Create(CreateParams{Title: "b"})
	c, _ := svc.Create(CreateParams{Title: "c"})

	// a <- b <- c
	_, err := svc.LinkToParent(b.ID, a.ID)
	require.NoError(t, err)
	_, err = svc.LinkToParent(c.ID, b.ID)
	require.NoError(t, err)

	// Two-node cycle: a under b.
	var cErr *CircularDependencyError
	_, err = svc.LinkToParent(a.ID, b.ID)
	require.ErrorAs(t, err, &cErr)

	// Three-node cycle: a under c.
	_, err = svc.LinkToParent(a.ID, c.ID)
	require.ErrorAs(t, err, &cErr)
	require.Equal(t, a.ID, cErr.TaskID)
	require.Equal(t, c.ID, cErr.ParentID)
}

func TestLinkToParent_Reparent(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	a, _ := svc.Create(CreateParams{Title: "a"})
	b, _ := svc.Create(CreateParams{Title: "b"})
	c, _ := svc.Create(CreateParams{Title: "c"})

	// Moving c from under a to under b is fine: no cycle involved.
	_, err := svc.LinkToParent(c.ID, a.ID)
	require.NoError(t, err)
	moved, err := svc.LinkToParent(c.ID, b.ID)
	require.NoError(t, err)
	require.Equal(t, b.ID, *moved.ParentTaskID)
}

func TestUnlinkFromParent(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	parent, _ := svc.Create(CreateParams{Title: "parent"})
	child, _ := svc.Create(CreateParams{Title: "child", ParentTaskID: &parent.ID})

	unlinked, err := svc.UnlinkFromParent(child.ID)
	require.NoError(t, err)
	require.Nil(t, unlinked.ParentTaskID)

	// Unlinking a root task is a no-op, not an error.
	again, err := svc.UnlinkFromParent(child.ID)
	require.NoError(t, err)
	require.Nil(t, again.ParentTaskID)

	_, err = svc.UnlinkFromParent(99)
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestLinkUnlink_NeverProducesCycle(t *testing.T) {
	svc, store, _, _ := newTestService(t)

	const n = 8
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		created, err := svc.Create(CreateParams{Title: "node"})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	// Exercise a fixed mix of links, relinks, and unlinks; acyclicity
	// must hold after every accepted operation.
	ops := []struct {
		unlink bool
		task   int
		parent int
	}{
		{false, 1, 0}, {false, 2, 1}, {false, 3, 2}, {false, 0, 3},
		{false, 4, 0}, {false, 5, 4}, {true, 2, 0}, {false, 0, 2},
		{false, 6, 5}, {false, 7, 6}, {false, 4, 7}, {true, 4, 0},
		{false, 4, 1}, {false, 1, 4},
	}
	for _, op := range ops {
		if op.unlink {
			_, err := svc.UnlinkFromParent(ids[op.task])
			require.NoError(t, err)
		} else {
			// Rejection is fine; silent cycle creation is not.
			svc.LinkToParent(ids[op.task], ids[op.parent])
		}

		for _, id := range ids {
			seen := map[int64]bool{}
			cur, err := store.GetTask(id)
			require.NoError(t, err)
			for cur.ParentTaskID != nil {
				require.False(t, seen[cur.ID], "cycle reachable from task %d", id)
				seen[cur.ID] = true
				cur, err = store.GetTask(*cur.ParentTaskID)
				require.NoError(t, err)
			}
		}
	}
}

func TestSubtasks(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	parent, _ := svc.Create(CreateParams{Title: "parent"})
	first, _ := svc.Create(CreateParams{Title: "first", ParentTaskID: &parent.ID})
	second, _ := svc.Create(CreateParams{Title: "second", ParentTaskID: &parent.ID})

	subs, err := svc.Subtasks(parent.ID)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	require.Equal(t, first.ID, subs[0].ID)
	require.Equal(t, second.ID, subs[1].ID)

	_, err = svc.Subtasks(99)
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestHierarchy(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	root, _ := svc.Create(CreateParams{Title: "root"})
	mid, _ := svc.Create(CreateParams{Title: "mid", ParentTaskID: &root.ID})
	leaf, _ := svc.Create(CreateParams{Title: "leaf", ParentTaskID: &mid.ID})
	sibling, _ := svc.Create(CreateParams{Title: "sibling", ParentTaskID: &root.ID})

	node, err := svc.Hierarchy(root.ID)
	require.NoError(t, err)
	require.Equal(t, root.ID, node.Task.ID)
	require.Len(t, node.Subtasks, 2)
	require.Equal(t, mid.ID, node.Subtasks[0].Task.ID)
	require.Equal(t, sibling.ID, node.Subtasks[1].Task.ID)
	require.Len(t, node.Subtasks[0].Subtasks, 1)
	require.Equal(t, leaf.ID, node.Subtasks[0].Subtasks[0].Task.ID)

	// Leaves carry an empty, non-nil subtask list for JSON rendering.
	require.NotNil(t, node.Subtasks[1].Subtasks)
	require.Empty(t, node.Subtasks[1].Subtasks)

	_, err = svc.Hierarchy(99)
	require.ErrorIs(t, err, ErrTaskNotFound)
}
