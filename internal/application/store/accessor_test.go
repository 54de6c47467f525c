package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/diary"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/infrastructure/transport/transporttest"
)

func TestAccessors_ReflectStoreState(t *testing.T) {
	fake := transporttest.New()
	fake.On("POST", "/login").Reply(loginOK)
	fake.On("POST", "/notas").Reply(`{"data":[{"id":5}],"accompaniment":{"message":"Respira hondo"}}`)
	fake.On("GET", "/recomendaciones/todas").Fail(500, "")
	fake.On("GET", "/likes/u1").Reply(`[1]`)
	fake.On("GET", "/citas/usuario/u1").Reply(`{"citas_creadas":[{"id_cita":1}]}`)
	fake.On("GET", alertsPath).Reply(`[{"id":1}]`)
	ctx := context.Background()

	a := UseAuth(newAuthStore(fake, nil))
	require.True(t, a.Login(ctx, "ana@unmsm.edu.pe", "secret"))
	assert.True(t, a.IsAuthenticated())
	assert.Equal(t, "u1", a.User().ID)
	assert.False(t, a.IsLoading())

	d := UseDiary(newDiaryStore(fake))
	_, ok := d.CreateNote(ctx, diary.NoteInput{UserID: "u1", Text: "hoy"})
	require.True(t, ok)
	assert.Len(t, d.Notes(), 1)
	assert.Equal(t, "Respira hondo", d.AccompanimentMessage().Text())

	r := UseRecommendations(newRecommendationsStore(fake, testOptions()))
	assert.False(t, r.FetchRecommendations(ctx))
	assert.Equal(t, msgFetchRecommendations, r.Error())
	r.ClearError()
	assert.Empty(t, r.Error())
	require.True(t, r.FetchUserLikes(ctx, "u1"))
	assert.True(t, r.IsLiked(1))

	ap := UseAppointments(newAppointmentsStore(fake))
	require.True(t, ap.GetUserAppointments(ctx, "u1"))
	assert.Len(t, ap.Appointments(), 1)

	p := UsePsychologist(newPsychologistStore(fake))
	require.True(t, p.FetchAlerts(ctx, "p1"))
	assert.Len(t, p.Alerts(), 1)
	assert.Empty(t, p.Students())
}
