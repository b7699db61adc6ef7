package tree

import (
	randv2 "math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benz9527/xtree/lib/id"
)

func TestNilNode(t *testing.T) {
	var nilNode RBNode[uint64, uint64] = nil
	require.True(t, nilNode == nil)

	var nilNode2 *rbNode[uint64, uint64] = nil
	nilNode = nilNode2
	require.True(t, nilNode != nil)
	require.Nil(t, nilNode)
}

func TestRbtreeInsertAndRemove_CheckColors(t *testing.T) {
	type checkData struct {
		color RBColor
		key   uint64
	}

	tree := &rbTree[uint64, uint64]{}

	expect := func(expected []checkData) {
		tree.Foreach(func(idx int64, color RBColor, key uint64, val uint64) bool {
			require.Equal(t, expected[idx].color, color)
			require.Equal(t, expected[idx].key, key)
			return true
		})
		require.NoError(t, RedViolationValidate[uint64, uint64](tree))
		require.NoError(t, BlackViolationValidate[uint64, uint64](tree))
	}

	require.NoError(t, tree.Insert(52, 1))
	expect([]checkData{
		{Black, 52},
	})

	require.NoError(t, tree.Insert(47, 1))
	expect([]checkData{
		{Red, 47}, {Black, 52},
	})

	require.NoError(t, tree.Insert(3, 1))
	expect([]checkData{
		{Red, 3}, {Black, 47}, {Red, 52},
	})

	require.NoError(t, tree.Insert(35, 1))
	expect([]checkData{
		{Black, 3},
		{Red, 35},
		{Black, 47},
		{Black, 52},
	})

	require.NoError(t, tree.Insert(24, 1))
	expect([]checkData{
		{Red, 3},
		{Black, 24},
		{Red, 35},
		{Black, 47},
		{Black, 52},
	})

	// remove

	x, err := tree.Remove(24)
	require.NoError(t, err)
	require.Equal(t, uint64(24), x.Key())
	// 24 held two children, its in-order successor 35 was transplanted
	// into its slot and inherited the black color.
	expect([]checkData{
		{Red, 3},
		{Black, 35},
		{Black, 47},
		{Black, 52},
	})

	x, err = tree.Remove(47)
	require.NoError(t, err)
	require.Equal(t, uint64(47), x.Key())
	expect([]checkData{
		{Black, 3},
		{Black, 35},
		{Black, 52},
	})

	x, err = tree.Remove(52)
	require.NoError(t, err)
	require.Equal(t, uint64(52), x.Key())
	expect([]checkData{
		{Red, 3}, {Black, 35},
	})

	x, err = tree.Remove(3)
	require.NoError(t, err)
	require.Equal(t, uint64(3), x.Key())
	expect([]checkData{
		{Black, 35},
	})

	x, err = tree.Remove(35)
	require.NoError(t, err)
	require.Equal(t, uint64(35), x.Key())
	require.Equal(t, int64(0), tree.Len())

	x, err = tree.Remove(100)
	require.NoError(t, err)
	require.Nil(t, x)
}

func TestRbtree_RemoveMin(t *testing.T) {
	type checkData struct {
		color RBColor
		key   uint64
	}

	tree := &rbTree[uint64, uint64]{}

	require.NoError(t, tree.Insert(52, 1))
	require.NoError(t, tree.Insert(47, 1))
	require.NoError(t, tree.Insert(3, 1))
	require.NoError(t, tree.Insert(35, 1))
	require.NoError(t, tree.Insert(24, 1))

	expect := func(expected []checkData) {
		tree.Foreach(func(idx int64, color RBColor, key uint64, val uint64) bool {
			require.Equal(t, expected[idx].color, color)
			require.Equal(t, expected[idx].key, key)
			return true
		})
		require.NoError(t, RedViolationValidate[uint64, uint64](tree))
		require.NoError(t, BlackViolationValidate[uint64, uint64](tree))
	}

	expect([]checkData{
		{Red, 3},
		{Black, 24},
		{Red, 35},
		{Black, 47},
		{Black, 52},
	})

	// remove min

	x, err := tree.RemoveMin()
	require.NoError(t, err)
	require.Equal(t, uint64(3), x.Key())
	expect([]checkData{
		{Black, 24},
		{Red, 35},
		{Black, 47},
		{Black, 52},
	})

	x, err = tree.RemoveMin()
	require.NoError(t, err)
	require.Equal(t, uint64(24), x.Key())
	expect([]checkData{
		{Black, 35},
		{Black, 47},
		{Black, 52},
	})

	x, err = tree.RemoveMin()
	require.NoError(t, err)
	require.Equal(t, uint64(35), x.Key())
	expect([]checkData{
		{Black, 47}, {Red, 52},
	})

	x, err = tree.RemoveMin()
	require.NoError(t, err)
	require.Equal(t, uint64(47), x.Key())
	expect([]checkData{
		{Black, 52},
	})

	x, err = tree.RemoveMin()
	require.NoError(t, err)
	require.Equal(t, uint64(52), x.Key())
	require.Equal(t, int64(0), tree.Len())

	_, err = tree.RemoveMin()
	require.ErrorIs(t, err, ErrRBTreeEmpty)
}

func TestRbtree_UpdateAndSearch(t *testing.T) {
	tree := NewRBTree[uint64, string]()
	require.NoError(t, tree.Insert(7, "seven"))
	require.NoError(t, tree.Insert(3, "three"))
	require.NoError(t, tree.Insert(11, "eleven"))

	x := tree.Search(3)
	require.NotNil(t, x)
	require.Equal(t, "three", x.Val())

	require.Nil(t, tree.Search(4))

	require.NoError(t, tree.Update(3, "tres"))
	require.Equal(t, "tres", tree.Search(3).Val())
	require.Equal(t, int64(3), tree.Len())

	err := tree.Update(4, "cuatro")
	require.ErrorIs(t, err, ErrRBTreeKeyNotFound)

	require.Equal(t, uint64(3), tree.Minimum().Key())
	require.Equal(t, uint64(11), tree.Maximum().Key())
}

func TestRbtree_InOrderNeighbors(t *testing.T) {
	tree := &rbTree[uint64, string]{}
	keys := []uint64{5, 3, 8, 1, 4, 7, 9}
	for _, key := range keys {
		require.NoError(t, tree.Insert(key, "v"))
	}

	sorted := []uint64{1, 3, 4, 5, 7, 8, 9}
	for i, key := range sorted {
		node := tree.search(tree.root, key)
		require.NotNil(t, node)
		if i == 0 {
			require.Nil(t, node.pred())
		} else {
			require.Equal(t, sorted[i-1], node.pred().key)
		}
		if i == len(sorted)-1 {
			require.Nil(t, node.succ())
		} else {
			require.Equal(t, sorted[i+1], node.succ().key)
		}
	}

	require.Equal(t, sorted, tree.Ascend())
	require.Equal(t, []string{"v", "v", "v", "v", "v", "v", "v"}, tree.AscendValues())
}

func TestRbtreeRandomInsertAndRemove_SequentialNumber(t *testing.T) {
	total := uint64(1000)
	insertTotal := uint64(float64(total) * 0.8)
	removeTotal := uint64(float64(total) * 0.2)

	tree := &rbTree[uint64, uint64]{}

	for i := uint64(0); i < insertTotal; i++ {
		require.NoError(t, tree.Insert(i, 1))
		require.NoError(t, Validate[uint64, uint64](tree))
	}
	tree.Foreach(func(idx int64, color RBColor, key uint64, val uint64) bool {
		require.Equal(t, uint64(idx), key)
		return true
	})

	for i := insertTotal; i < removeTotal+insertTotal; i++ {
		require.NoError(t, tree.Insert(i, 1))
		require.NoError(t, Validate[uint64, uint64](tree))
	}

	for i := insertTotal; i < removeTotal+insertTotal; i++ {
		if i == 892 {
			x := tree.Search(i)
			require.NotNil(t, x)
			require.Equal(t, uint64(892), x.Key())
		}
		x, err := tree.Remove(i)
		require.NoError(t, err)
		require.Equal(t, i, x.Key())
		require.NoError(t, Validate[uint64, uint64](tree))
	}
	tree.Foreach(func(idx int64, color RBColor, key uint64, val uint64) bool {
		require.Equal(t, uint64(idx), key)
		return true
	})
}

func TestRBTreeRandomInsertAndRemove_SequentialNumber_Release(t *testing.T) {
	insertTotal := uint64(100_000)

	tree := &rbTree[uint64, uint64]{}

	rand := uint64(randv2.Uint32() % 1_000)
	for i := uint64(0); i < insertTotal; i++ {
		require.NoError(t, tree.Insert(i, 1))
		if i%1000 == rand {
			require.NoError(t, RedViolationValidate[uint64, uint64](tree))
			require.NoError(t, BlackViolationValidate[uint64, uint64](tree))
		}
	}
	tree.Foreach(func(idx int64, color RBColor, key uint64, val uint64) bool {
		require.Equal(t, uint64(idx), key)
		return true
	})
	tree.Release()
	require.Equal(t, int64(0), tree.Len())
	require.Nil(t, tree.Root())
}

func rbtreeRandomInsertAndRemoveRunCore(t *testing.T, total uint64, violationCheck bool) {
	insertTotal := uint64(float64(total) * 0.8)
	removeTotal := uint64(float64(total) * 0.2)

	idGen, err := id.MonotonicNonZeroID()
	require.NoError(t, err)
	insertElements := make([]uint64, 0, insertTotal)
	removeElements := make([]uint64, 0, removeTotal)

	ignore := uint32(0)

	for {
		num := idGen.Number()
		if ignore > 0 {
			ignore--
			continue
		}
		ignore = randv2.Uint32() % 100
		if ignore&0x1 == 0 && uint64(len(insertElements)) < insertTotal {
			insertElements = append(insertElements, num)
		} else if ignore&0x1 == 1 && uint64(len(removeElements)) < removeTotal {
			removeElements = append(removeElements, num)
		}
		if uint64(len(insertElements)) == insertTotal && uint64(len(removeElements)) == removeTotal {
			break
		}
	}

	shuffle := func(arr []uint64) {
		count := uint32(len(arr) >> 2)
		for i := uint32(0); i < count; i++ {
			j := randv2.Uint32() % (i + 1)
			arr[i], arr[j] = arr[j], arr[i]
		}
	}

	shuffle(insertElements)
	shuffle(removeElements)

	tree := &rbTree[uint64, uint64]{}

	for i := uint64(0); i < insertTotal; i++ {
		require.NoError(t, tree.Insert(insertElements[i], i))
		if violationCheck {
			require.NoError(t, Validate[uint64, uint64](tree))
		}
	}
	sort.Slice(insertElements, func(i, j int) bool {
		return insertElements[i] < insertElements[j]
	})
	tree.Foreach(func(idx int64, color RBColor, key uint64, val uint64) bool {
		require.Equal(t, insertElements[idx], key)
		return true
	})

	for i := uint64(0); i < removeTotal; i++ {
		require.NoError(t, tree.Insert(removeElements[i], 1))
		if violationCheck {
			require.NoError(t, Validate[uint64, uint64](tree))
		}
	}
	require.NoError(t, Validate[uint64, uint64](tree))

	for i := uint64(0); i < removeTotal; i++ {
		x, rerr := tree.Remove(removeElements[i])
		require.NoError(t, rerr)
		require.Equalf(t, removeElements[i], x.Key(), "value exp: %d, real: %d\n", removeElements[i], x.Key())
		if violationCheck {
			require.NoError(t, Validate[uint64, uint64](tree))
		}
	}
	tree.Foreach(func(idx int64, color RBColor, key uint64, val uint64) bool {
		require.Equal(t, insertElements[idx], key)
		return true
	})
}

func TestRbtreeRandomInsertAndRemove_RandomMonotonicNumber(t *testing.T) {
	type testcase struct {
		name           string
		total          uint64
		violationCheck bool
	}
	testcases := []testcase{
		{
			name:  "no violation check 1000000",
			total: 1000000,
		},
		{
			name:           "violation check 10000",
			total:          10000,
			violationCheck: true,
		},
		{
			name:           "violation check 20000",
			total:          20000,
			violationCheck: true,
		},
	}
	t.Parallel()
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			rbtreeRandomInsertAndRemoveRunCore(tt, tc.total, tc.violationCheck)
		})
	}
}

func BenchmarkRBTree_Random(b *testing.B) {
	testByBytes := []byte(`abc`)

	b.StopTimer()
	tree := NewRBTree[int, []byte]()

	rngArr := make([]int, 0, b.N)
	for i := 0; i < b.N; i++ {
		rngArr = append(rngArr, randv2.Int())
	}

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		_ = tree.Insert(rngArr[i], testByBytes)
	}
}

func BenchmarkRBTree_Serial(b *testing.B) {
	testByBytes := []byte(`abc`)

	b.StopTimer()
	tree := NewRBTree[int, []byte]()

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		_ = tree.Insert(i, testByBytes)
	}
}
