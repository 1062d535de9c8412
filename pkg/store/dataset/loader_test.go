package dataset

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Customer ID,Age,Gender,Item Purchased,Category,Purchase Amount (USD),Location,Season,Review Rating
1,55,Male,Blouse,Clothing,53,Kentucky,Winter,3.1
2,19,Male,Sweater,Clothing,64,Maine,Winter,3.1
3,50,Female,Jeans,Clothing,73.5,Massachusetts,Spring,3.1
`

func TestParse(t *testing.T) {
	ds, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	require.Equal(t, 3, ds.Len())
	assert.Equal(t, []string{"Location", "Review Rating"}, ds.ExtraFields())

	first := ds.Rows()[0]
	assert.Equal(t, "1", first.CustomerID)
	assert.Equal(t, 55, first.Age)
	assert.Equal(t, "Male", first.Gender)
	assert.Equal(t, "Blouse", first.Item)
	assert.Equal(t, "Clothing", first.Category)
	assert.True(t, first.Amount.Equal(decimal.NewFromInt(53)))
	assert.Equal(t, "Winter", first.Season)
	assert.Equal(t, map[string]string{"Location": "Kentucky", "Review Rating": "3.1"}, first.Extra)

	assert.True(t, ds.Rows()[2].Amount.Equal(decimal.RequireFromString("73.5")))
}

func TestParse_TrailingZerosWithinScale(t *testing.T) {
	input := "Age,Gender,Item Purchased,Category,Purchase Amount (USD),Season\n20,Male,Belt,Accessories,10.000100,Fall\n"

	ds, err := Parse(strings.NewReader(input))

	require.NoError(t, err)
	assert.True(t, ds.Rows()[0].Amount.Equal(decimal.RequireFromString("10.0001")))
	assert.Nil(t, ds.Rows()[0].Extra)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{
			name:    "missing season column",
			input:   "Age,Gender,Item Purchased,Category,Purchase Amount (USD)\n20,Male,Belt,Accessories,10\n",
			message: `missing column "Season"`,
		},
		{
			name:    "non numeric amount",
			input:   "Age,Gender,Item Purchased,Category,Purchase Amount (USD),Season\n20,Male,Belt,Accessories,ten,Fall\n",
			message: `row 1: column "Purchase Amount (USD)"`,
		},
		{
			name:    "amount finer than four places",
			input:   "Age,Gender,Item Purchased,Category,Purchase Amount (USD),Season\n20,Male,Belt,Accessories,10.00005,Fall\n",
			message: "more than 4 decimal places",
		},
		{
			name:    "non numeric age",
			input:   "Age,Gender,Item Purchased,Category,Purchase Amount (USD),Season\nold,Male,Belt,Accessories,10,Fall\n",
			message: `column "Age"`,
		},
		{
			name:    "empty input",
			input:   "",
			message: "read csv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
			assert.ErrorContains(t, err, tt.message)
		})
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shopping_trends.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	src, err := NewSource(context.Background(), path, SourceOptions{})
	require.NoError(t, err)

	ds, err := Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
}

func TestLoad_MissingFile(t *testing.T) {
	src := FileSource{Path: filepath.Join(t.TempDir(), "absent.csv")}

	_, err := Load(context.Background(), src)

	assert.ErrorIs(t, err, ErrMissingFile)
}

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) GetObject(ctx context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, *params.Bucket, *params.Key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func TestS3Source(t *testing.T) {
	t.Run("reads object", func(t *testing.T) {
		client := new(mockS3)
		client.On("GetObject", mock.Anything, "datasets", "retail/shopping_trends.csv").
			Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(sampleCSV))}, nil)
		src := &S3Source{Client: client, Bucket: "datasets", Key: "retail/shopping_trends.csv"}

		ds, err := Load(context.Background(), src)

		require.NoError(t, err)
		assert.Equal(t, 3, ds.Len())
		assert.Equal(t, "s3://datasets/retail/shopping_trends.csv", src.String())
		client.AssertExpectations(t)
	})

	t.Run("missing key", func(t *testing.T) {
		client := new(mockS3)
		client.On("GetObject", mock.Anything, "datasets", "absent.csv").
			Return(nil, &types.NoSuchKey{})
		src := &S3Source{Client: client, Bucket: "datasets", Key: "absent.csv"}

		_, err := Load(context.Background(), src)

		assert.ErrorIs(t, err, ErrMissingFile)
	})

	t.Run("other failure", func(t *testing.T) {
		client := new(mockS3)
		client.On("GetObject", mock.Anything, "datasets", "data.csv").
			Return(nil, errors.New("access denied"))
		src := &S3Source{Client: client, Bucket: "datasets", Key: "data.csv"}

		_, err := Load(context.Background(), src)

		assert.ErrorContains(t, err, "access denied")
		assert.NotErrorIs(t, err, ErrMissingFile)
	})
}

func TestParseS3Location(t *testing.T) {
	bucket, key, err := parseS3Location("s3://datasets/retail/trends.csv")
	require.NoError(t, err)
	assert.Equal(t, "datasets", bucket)
	assert.Equal(t, "retail/trends.csv", key)

	_, _, err = parseS3Location("s3://datasets")
	assert.Error(t, err)
}
