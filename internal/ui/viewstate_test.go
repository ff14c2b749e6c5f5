package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewState_InitialState(t *testing.T) {
	v := NewViewState("%d runs loaded")
	require.Equal(t, ScreenIdle, v.Screen)
	require.False(t, v.Busy())
	require.Equal(t, -1, v.LastBatch)
	require.Empty(t, v.TakeMessage())
}

func TestViewState_Screens(t *testing.T) {
	v := NewViewState("")
	steps := []struct {
		show func()
		want Screen
	}{
		{v.ShowLoading, ScreenLoading},
		{v.ShowError, ScreenError},
		{v.ShowEmpty, ScreenEmpty},
		{v.ShowContent, ScreenContent},
	}
	for _, s := range steps {
		s.show()
		assert.Equal(t, s.want, v.Screen)
		assert.Equal(t, s.want.String(), v.Screen.String())
	}
}

func TestViewState_LoadIndicator(t *testing.T) {
	v := NewViewState("%d runs loaded")

	v.SetLoadIndicator(true, -1)
	require.True(t, v.Busy())
	require.True(t, v.LoadingMore)

	v.SetLoadIndicator(false, 7)
	require.False(t, v.Busy())
	require.Equal(t, 7, v.LastBatch)
	require.Equal(t, "7 runs loaded", v.TakeMessage())
	require.Empty(t, v.TakeMessage(), "message is taken once")

	v.SetLoadIndicator(false, -1)
	require.Equal(t, 7, v.LastBatch, "nothing to report keeps the last size")
	require.Empty(t, v.TakeMessage())

	v.SetLoadIndicator(false, 0)
	require.Equal(t, 0, v.LastBatch)
	require.Empty(t, v.TakeMessage(), "an empty batch is not announced")
}

func TestViewState_QuietWithoutPattern(t *testing.T) {
	v := NewViewState("")
	v.SetLoadIndicator(false, 3)
	require.Equal(t, 3, v.LastBatch)
	require.Empty(t, v.TakeMessage())
}

func TestViewState_ToastReplacesUnread(t *testing.T) {
	v := NewViewState("")
	v.SetRefreshIndicator(true)
	require.True(t, v.Busy())
	v.ShowToast("first")
	v.ShowToast("second")
	require.Equal(t, "second", v.TakeMessage())
	v.SetRefreshIndicator(false)
	require.False(t, v.Busy())
}
