// Copyright (C) 2025 Dyne.org foundation
// designed, written and maintained by Denis Roio <jaromil@dyne.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package files

import (
	"os"
	"syscall"
	"time"
)

// statTimes extracts change and access times from the inode. Linux has
// no true creation time on most filesystems; the status-change time is
// the closest portable equivalent.
func statTimes(info os.FileInfo) (created, accessed time.Time) {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		created = time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
		accessed = time.Unix(st.Atim.Sec, st.Atim.Nsec)
		return created, accessed
	}
	return info.ModTime(), info.ModTime()
}
