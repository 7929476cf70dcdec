/*
Copyright 2026 The Relq Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package log

import (
	"sync/atomic"
	"testing"

	"github.com/golang/glog"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestLogRotateMaxSizeFlag(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)

	flag := fs.Lookup("log-rotate-max-size")
	require.NotNil(t, flag)
	require.Equal(t, "uint64", flag.Value.Type())

	require.NoError(t, flag.Value.Set("1048576"))
	require.Equal(t, uint64(1048576), atomic.LoadUint64(&glog.MaxSize))
	require.Equal(t, "1048576", flag.Value.String())

	require.Error(t, flag.Value.Set("not-a-number"))
}
