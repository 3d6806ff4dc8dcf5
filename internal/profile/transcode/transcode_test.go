package transcode

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quire/internal/affiliation"
	"quire/internal/profile/models"
	dErrors "quire/pkg/domain-errors"
)

func testRegistry() *affiliation.Registry {
	return affiliation.NewRegistry([]affiliation.Institution{
		{Name: "Harvard University", Domain: "harvard.edu", Country: "US"},
		{Name: "MIT", Domain: "mit.edu", Country: "US"},
	})
}

func completeForm() models.FormData {
	fd := models.NewFormData()
	fd.FirstName = "Ada"
	fd.LastName = "Lovelace"
	fd.Email = "ada@mit.edu"
	fd.Institution = "MIT"
	fd.Department = "Mathematics"
	fd.ResearchInterests = []string{"computation", "engines"}
	fd.OrcidID = "0000-0002-1825-0097"
	return fd
}

func TestToUserProfile(t *testing.T) {
	t.Run("joins names and forces completion flags", func(t *testing.T) {
		update, err := ToUserProfile(completeForm(), false, testRegistry())
		require.NoError(t, err)

		assert.Equal(t, "Ada Lovelace", update.Name)
		assert.True(t, update.ProfileComplete)
		assert.True(t, update.IsComplete)
	})

	t.Run("missing last name leaves no trailing space", func(t *testing.T) {
		fd := completeForm()
		fd.LastName = ""
		update, err := ToUserProfile(fd, false, testRegistry())
		require.NoError(t, err)
		assert.Equal(t, "Ada", update.Name)
	})

	t.Run("empty optional fields are omitted, not blank", func(t *testing.T) {
		fd := completeForm()
		fd.PersonalWebsite = ""
		fd.Twitter = ""
		update, err := ToUserProfile(fd, false, testRegistry())
		require.NoError(t, err)

		assert.Nil(t, update.PersonalWebsite)
		assert.Nil(t, update.Twitter)
		require.NotNil(t, update.OrcidID)
		assert.Equal(t, "0000-0002-1825-0097", *update.OrcidID)
	})

	t.Run("new profile with mismatched domain aborts", func(t *testing.T) {
		fd := completeForm()
		fd.Email = "ada@gmail.com"
		_, err := ToUserProfile(fd, false, testRegistry())
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeDomainMismatch))
		assert.Contains(t, err.Error(), "MIT")
		assert.Contains(t, err.Error(), "mit.edu")
	})

	t.Run("edit mode skips domain verification", func(t *testing.T) {
		fd := completeForm()
		fd.Email = "ada@gmail.com"
		update, err := ToUserProfile(fd, true, testRegistry())
		require.NoError(t, err)
		assert.Equal(t, "ada@gmail.com", update.Email)
	})

	t.Run("unknown institution is not penalized", func(t *testing.T) {
		fd := completeForm()
		fd.Institution = "Unlisted College"
		fd.Email = "ada@gmail.com"
		_, err := ToUserProfile(fd, false, testRegistry())
		require.NoError(t, err)
	})
}

func TestFromUserProfile(t *testing.T) {
	t.Run("splits name on first space", func(t *testing.T) {
		fd := FromUserProfile(models.UserProfile{Name: "Ada King Lovelace"})
		assert.Equal(t, "Ada", fd.FirstName)
		assert.Equal(t, "King Lovelace", fd.LastName)
	})

	t.Run("single word name has empty last name", func(t *testing.T) {
		fd := FromUserProfile(models.UserProfile{Name: "Ada"})
		assert.Equal(t, "Ada", fd.FirstName)
		assert.Empty(t, fd.LastName)
	})

	t.Run("defaults role to Researcher", func(t *testing.T) {
		fd := FromUserProfile(models.UserProfile{})
		assert.Equal(t, models.RoleResearcher, fd.Role)
	})

	t.Run("existing profile requires id, created timestamp, and name", func(t *testing.T) {
		full := models.UserProfile{
			ID:        uuid.New(),
			Name:      "Ada Lovelace",
			CreatedAt: time.Now(),
		}
		assert.True(t, FromUserProfile(full).IsExistingProfile)

		noID := full
		noID.ID = uuid.Nil
		assert.False(t, FromUserProfile(noID).IsExistingProfile)

		noCreated := full
		noCreated.CreatedAt = time.Time{}
		assert.False(t, FromUserProfile(noCreated).IsExistingProfile)

		noName := full
		noName.Name = ""
		assert.False(t, FromUserProfile(noName).IsExistingProfile)
	})
}

func TestRoundTrip(t *testing.T) {
	profile := models.UserProfile{
		ID:                uuid.New(),
		Name:              "Ada Lovelace",
		Email:             "a@x.edu",
		Institution:       "MIT",
		Department:        "Mathematics",
		Position:          "Fellow",
		ResearchInterests: []string{"computation"},
		Role:              models.RoleProfessor,
		PersonalWebsite:   "https://ada.dev",
		OrcidID:           "0000-0002-1825-0097",
		WantsToBeEditor:   true,
		CreatedAt:         time.Now(),
	}

	update, err := ToUserProfile(FromUserProfile(profile), true, testRegistry())
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", update.Name)
	assert.Equal(t, "a@x.edu", update.Email)
	assert.Equal(t, "MIT", update.Institution)
	assert.Equal(t, "Mathematics", update.Department)
	assert.Equal(t, "Fellow", update.Position)
	assert.Equal(t, []string{"computation"}, update.ResearchInterests)
	assert.Equal(t, models.RoleProfessor, update.Role)
	require.NotNil(t, update.PersonalWebsite)
	assert.Equal(t, "https://ada.dev", *update.PersonalWebsite)
	require.NotNil(t, update.OrcidID)
	assert.Equal(t, "0000-0002-1825-0097", *update.OrcidID)
	assert.True(t, update.WantsToBeEditor)
	assert.True(t, update.ProfileComplete)
	assert.True(t, update.IsComplete)
}
