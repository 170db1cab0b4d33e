package guid

import (
	"testing"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	Convey("guid.New:", t, func() {
		id1 := New()
		id2 := New()
		Convey("ids are canonical uuids", func() {
			So(id1, ShouldHaveLength, 36)
			parsed, err := uuid.Parse(id1)
			So(err, ShouldBeNil)
			So(parsed.String(), ShouldEqual, id1)
		})
		Convey("ids are random ones", func() {
			parsed, _ := uuid.Parse(id1)
			So(parsed.Version(), ShouldEqual, uuid.Version(4))
			So(parsed.Variant(), ShouldEqual, uuid.RFC4122)
		})
		Convey("ids differ", func() {
			So(id1, ShouldNotEqual, id2)
		})
		Convey("ids contain no path separators", func() {
			So(id1, ShouldNotContainSubstring, "/")
		})
	})
}
