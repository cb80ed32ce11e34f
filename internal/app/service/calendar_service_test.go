package service

import (
	"context"
	"testing"

	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/ikkim/phonedesk-backend/internal/authz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarService_Todos(t *testing.T) {
	f := setupServiceTest(t)
	svc := NewCalendarService(f.calendar, f.profiles, f.authorizer)
	ctx := context.Background()
	me := staffOf(f.shopA)

	var verr *ValidationError
	_, err := svc.CreateTodo(ctx, me, TodoInput{Date: "2024-05-01", Content: "재고 확인", Highlight: 4})
	assert.ErrorAs(t, err, &verr)
	_, err = svc.CreateTodo(ctx, me, TodoInput{Date: "2024-5-1", Content: "재고 확인"})
	assert.ErrorAs(t, err, &verr)

	todo, err := svc.CreateTodo(ctx, me, TodoInput{Date: "2024-05-01", Content: "재고 확인", Highlight: 3})
	require.NoError(t, err)
	_, err = svc.CreateTodo(ctx, me, TodoInput{Date: "2024-06-01", Content: "다음 달"})
	require.NoError(t, err)

	todos, err := svc.ListTodos(ctx, me, "2024-05")
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, todo.ID, todos[0].ID)

	done := true
	updated, err := svc.UpdateTodo(ctx, me, todo.ID, TodoPatch{Done: &done})
	require.NoError(t, err)
	assert.True(t, updated.Done)
	assert.Equal(t, 3, updated.Highlight)

	bad := -1
	_, err = svc.UpdateTodo(ctx, me, todo.ID, TodoPatch{Highlight: &bad})
	assert.ErrorAs(t, err, &verr)

	// 다른 사람의 일정은 보이지 않는다
	other := staffOf(f.shopA)
	_, err = svc.UpdateTodo(ctx, other, todo.ID, TodoPatch{Done: &done})
	assert.ErrorIs(t, err, ErrTodoNotFound)
	assert.ErrorIs(t, svc.DeleteTodo(ctx, other, todo.ID), ErrTodoNotFound)

	require.NoError(t, svc.DeleteTodo(ctx, me, todo.ID))
	assert.ErrorIs(t, svc.DeleteTodo(ctx, me, todo.ID), ErrTodoNotFound)
}

func TestCalendarService_Leaves(t *testing.T) {
	f := setupServiceTest(t)
	svc := NewCalendarService(f.calendar, f.profiles, f.authorizer)
	ctx := context.Background()

	memberA := f.createMember(t, f.shopA, "staff-a", model.RoleStaff)
	memberB := f.createMember(t, f.shopB, "staff-b", model.RoleStaff)
	authA := authz.NewAuthContext(memberA)
	authB := authz.NewAuthContext(memberB)

	leave, err := svc.UpsertLeave(ctx, authA, LeaveInput{Date: "2024-05-05"})
	require.NoError(t, err)
	assert.Equal(t, DefaultLeaveType, leave.LeaveType)

	// 같은 날짜는 덮어쓴다
	again, err := svc.UpsertLeave(ctx, authA, LeaveInput{Date: "2024-05-05", LeaveType: "half", Memo: "오후"})
	require.NoError(t, err)
	assert.Equal(t, leave.ID, again.ID)
	assert.Equal(t, "half", again.LeaveType)

	_, err = svc.UpsertLeave(ctx, authB, LeaveInput{Date: "2024-05-06"})
	require.NoError(t, err)

	mine, err := svc.ListLeaves(ctx, authA, "2024-05")
	require.NoError(t, err)
	require.Len(t, mine, 1)

	shopLeaves, err := svc.ShopLeaves(ctx, ownerOf(f.shopA), "", "2024-05")
	require.NoError(t, err)
	require.Len(t, shopLeaves, 1)
	assert.Equal(t, memberA.ID, shopLeaves[0].ProfileID)

	_, err = svc.ShopLeaves(ctx, ownerOf(f.shopA), f.shopB.ID, "2024-05")
	assert.ErrorIs(t, err, ErrForbidden)

	regional, err := svc.ShopLeaves(ctx, regionManagerOf(f.group), f.shopA.ID, "2024-05")
	require.NoError(t, err)
	assert.Len(t, regional, 1)

	require.NoError(t, svc.DeleteLeave(ctx, authA, "2024-05-05"))
	assert.ErrorIs(t, svc.DeleteLeave(ctx, authA, "2024-05-05"), ErrLeaveNotFound)
}
