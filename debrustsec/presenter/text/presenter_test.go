package text

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debian-rust/deb-rust-sec/debrustsec/presenter/internal"
)

func TestPresenter_Present(t *testing.T) {
	var buffer bytes.Buffer
	require.NoError(t, NewPresenter(internal.GenerateMatches()).Present(&buffer))

	expected := "rust-smallvec 1.6.0-1 RUSTSEC-2021-0003 CVE-2021-25900,GHSA-43w2-9j62-hq99 true " +
		"https://github.com/servo/rust-smallvec/issues/252 Buffer overflow in SmallVec::insert_many\n" +
		"rust-tokio-1.2 1.2.0-1 RUSTSEC-2021-0124 - false - " +
		"Data race when sending and receiving after closing a `oneshot` channel\n"
	assert.Equal(t, expected, buffer.String())
}

func TestPresenter_NoMatches(t *testing.T) {
	var buffer bytes.Buffer
	require.NoError(t, NewPresenter(nil).Present(&buffer))
	assert.Empty(t, buffer.String())
}

func TestPresenter_NoTitle(t *testing.T) {
	matches := internal.GenerateMatches()[:1]
	matches[0].Advisory.Title = ""
	matches[0].Advisory.URL = ""

	var buffer bytes.Buffer
	require.NoError(t, NewPresenter(matches).Present(&buffer))
	assert.Equal(t, "rust-smallvec 1.6.0-1 RUSTSEC-2021-0003 CVE-2021-25900,GHSA-43w2-9j62-hq99 true -\n", buffer.String())
}
